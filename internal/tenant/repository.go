package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrDuplicateGroup = errors.New("a group with that name already exists")
	ErrInvalidGroup   = errors.New("invalid group")
)

// Repository contains all DB interactions needed by the group service.
type Repository interface {
	CreateGroup(ctx context.Context, name string) (*Group, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (*Group, error)
	ListGroups(ctx context.Context, scope Scope) ([]Group, error)
	SetGroupStatus(ctx context.Context, id uuid.UUID, st GroupStatus, suspendedAt *time.Time) (*Group, error)
}
