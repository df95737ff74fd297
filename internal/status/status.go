package status

// Status is the shared soft-delete state for records that are never
// physically removed. Every entity that can be deactivated carries one of
// these instead of a per-entity boolean flag.
type Status string

const (
	Active   Status = "active"
	Inactive Status = "inactive"
)

func (s Status) IsActive() bool { return s == Active }

// Deactivate is the single soft-delete transition.
func (s Status) Deactivate() Status { return Inactive }

// Reactivate restores a soft-deleted record.
func (s Status) Reactivate() Status { return Active }

func (s Status) Valid() bool {
	return s == Active || s == Inactive
}
