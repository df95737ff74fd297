package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistacare/clinic-api/internal/clock"
)

var (
	ErrDayMismatch  = errors.New("date does not fall on the block's weekday")
	ErrOutOfRange   = errors.New("requested time is outside the block's hours")
	ErrSlotConflict = errors.New("the doctor already has an appointment in that time range")
)

// Proposal is a booking request as seen by the validator.
type Proposal struct {
	BlockID uuid.UUID
	Date    time.Time
	Start   clock.TimeOfDay
	End     clock.TimeOfDay
}

func (p Proposal) Interval() Interval {
	return Interval{Start: p.Start, End: p.End}
}

// Validate decides whether a proposed appointment is bookable against its
// block and the active appointments already on that block and date. It is a
// pure function: no clock reads, no storage access, no side effects. Checks
// run in order and the first failure wins:
//
//  1. the block must exist,
//  2. the date must fall on the block's weekday,
//  3. [start, end) must sit inside the block's hours, where
//     start == block start is allowed but end must exceed block start,
//  4. no active appointment on the same block and date may overlap,
//     with touching intervals not counting as overlap.
func Validate(p Proposal, existing []Interval, block *AvailabilityBlock) error {
	if block == nil {
		return ErrBlockNotFound
	}

	day := clock.WeekdayOf(p.Date)
	if day != block.Day {
		return fmt.Errorf("%w: %s is a %s, block is for %s",
			ErrDayMismatch, p.Date.Format("2006-01-02"), day, block.Day)
	}

	if !p.Start.Before(p.End) ||
		p.Start.Before(block.Start) || !p.Start.Before(block.End) ||
		!p.End.After(block.Start) || p.End.After(block.End) {
		return fmt.Errorf("%w: block runs %s to %s, requested %s to %s",
			ErrOutOfRange, block.Start, block.End, p.Start, p.End)
	}

	proposed := p.Interval()
	for _, e := range existing {
		if e.Overlaps(proposed) {
			return fmt.Errorf("%w: conflicts with %s to %s",
				ErrSlotConflict, e.Start, e.End)
		}
	}

	return nil
}
