package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistacare/clinic-api/internal/clock"
	"github.com/vistacare/clinic-api/internal/status"
)

func tod(t *testing.T, s string) clock.TimeOfDay {
	t.Helper()
	v, err := clock.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func mondayBlock(t *testing.T) *AvailabilityBlock {
	t.Helper()
	return &AvailabilityBlock{
		ID:       uuid.New(),
		DoctorID: uuid.New(),
		Day:      clock.Monday,
		Start:    tod(t, "09:00"),
		End:      tod(t, "13:00"),
		Status:   status.Active,
		TenantID: uuid.New(),
	}
}

func proposal(t *testing.T, block *AvailabilityBlock, date time.Time, start, end string) Proposal {
	t.Helper()
	return Proposal{
		BlockID: block.ID,
		Date:    date,
		Start:   tod(t, start),
		End:     tod(t, end),
	}
}

func TestValidateAcceptsSlotInsideBlock(t *testing.T) {
	block := mondayBlock(t)

	err := Validate(proposal(t, block, monday, "10:00", "10:30"), nil, block)
	assert.NoError(t, err)
}

func TestValidateMissingBlock(t *testing.T) {
	block := mondayBlock(t)

	err := Validate(proposal(t, block, monday, "10:00", "10:30"), nil, nil)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestValidateDayMismatch(t *testing.T) {
	block := mondayBlock(t)
	tuesday := monday.AddDate(0, 0, 1)

	err := Validate(proposal(t, block, tuesday, "10:00", "10:30"), nil, block)
	assert.ErrorIs(t, err, ErrDayMismatch)
}

func TestValidateDayMismatchBeatsRangeCheck(t *testing.T) {
	// Checks run in order: a wrong day is reported even when the time
	// range would also be rejected.
	block := mondayBlock(t)
	sunday := monday.AddDate(0, 0, -1)

	err := Validate(proposal(t, block, sunday, "06:00", "06:30"), nil, block)
	assert.ErrorIs(t, err, ErrDayMismatch)
}

func TestValidateTimeContainment(t *testing.T) {
	block := mondayBlock(t)

	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"exact block bounds", "09:00", "13:00", nil},
		{"starts at block start", "09:00", "09:30", nil},
		{"ends at block end", "12:30", "13:00", nil},
		{"starts before block", "08:30", "09:30", ErrOutOfRange},
		{"ends after block", "12:30", "13:30", ErrOutOfRange},
		{"entirely before block", "07:00", "08:00", ErrOutOfRange},
		{"entirely after block", "14:00", "15:00", ErrOutOfRange},
		{"ends exactly at block start", "08:00", "09:00", ErrOutOfRange},
		{"starts exactly at block end", "13:00", "13:30", ErrOutOfRange},
		{"zero length", "10:00", "10:00", ErrOutOfRange},
		{"inverted", "11:00", "10:00", ErrOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(proposal(t, block, monday, tc.start, tc.end), nil, block)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateOverlap(t *testing.T) {
	block := mondayBlock(t)
	existing := []Interval{
		{Start: tod(t, "10:00"), End: tod(t, "10:30")},
	}

	cases := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"identical", "10:00", "10:30", true},
		{"overlaps head", "09:45", "10:15", true},
		{"overlaps tail", "10:15", "10:45", true},
		{"contains existing", "09:30", "11:00", true},
		{"contained by existing", "10:10", "10:20", true},
		{"touches end of existing", "10:30", "11:00", false},
		{"touches start of existing", "09:30", "10:00", false},
		{"well clear", "11:00", "11:30", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(proposal(t, block, monday, tc.start, tc.end), existing, block)
			if tc.conflict {
				assert.ErrorIs(t, err, ErrSlotConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConflictNamesWinningInterval(t *testing.T) {
	block := mondayBlock(t)
	existing := []Interval{
		{Start: tod(t, "10:00"), End: tod(t, "10:30")},
	}

	err := Validate(proposal(t, block, monday, "10:15", "10:45"), existing, block)
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Contains(t, err.Error(), "10:00 to 10:30")
}

func TestValidateIsIdempotent(t *testing.T) {
	// Re-validating the same rejected proposal yields the same outcome;
	// validation has no side effects.
	block := mondayBlock(t)
	existing := []Interval{
		{Start: tod(t, "10:00"), End: tod(t, "10:30")},
	}
	p := proposal(t, block, monday, "10:00", "10:30")

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, Validate(p, existing, block), ErrSlotConflict)
	}
}

func TestIntervalOverlapsIsSymmetric(t *testing.T) {
	a := Interval{Start: tod(t, "10:00"), End: tod(t, "11:00")}
	b := Interval{Start: tod(t, "10:30"), End: tod(t, "11:30")}
	c := Interval{Start: tod(t, "11:00"), End: tod(t, "12:00")}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

// oracleCheck reimplements the booking rules with plain minute arithmetic
// so randomized inputs can cross-check Validate against an independent
// formulation.
func oracleCheck(p Proposal, existing []Interval, block *AvailabilityBlock) error {
	if block == nil {
		return ErrBlockNotFound
	}
	if clock.WeekdayOf(p.Date) != block.Day {
		return ErrDayMismatch
	}

	ps, pe := p.Start.Minutes(), p.End.Minutes()
	if ps >= pe || ps < block.Start.Minutes() || pe > block.End.Minutes() {
		return ErrOutOfRange
	}

	for _, e := range existing {
		if ps < e.End.Minutes() && pe > e.Start.Minutes() {
			return ErrSlotConflict
		}
	}
	return nil
}

func TestValidateMatchesRandomizedOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		date := monday.AddDate(0, 0, rng.Intn(14))

		day := clock.WeekdayOf(date)
		if rng.Intn(4) == 0 {
			day = clock.WeekdayOf(monday.AddDate(0, 0, rng.Intn(7)))
		}

		bs := rng.Intn(1380)
		be := bs + 1 + rng.Intn(1440-bs)
		block := &AvailabilityBlock{
			ID:       uuid.New(),
			DoctorID: uuid.New(),
			Day:      day,
			Start:    clock.TimeOfDay(bs),
			End:      clock.TimeOfDay(be),
			Status:   status.Active,
			TenantID: uuid.New(),
		}

		// Keep most proposals near the block so the later checks get
		// exercised, but leave room for wildly out-of-range ones.
		var ps, pe int
		if rng.Intn(4) > 0 {
			ps = bs - 30 + rng.Intn(be-bs+60)
			pe = ps + rng.Intn(be-bs+30)
		} else {
			ps = rng.Intn(1441)
			pe = rng.Intn(1441)
		}

		var existing []Interval
		for k := rng.Intn(4); k > 0; k-- {
			es := bs + rng.Intn(be-bs)
			existing = append(existing, Interval{
				Start: clock.TimeOfDay(es),
				End:   clock.TimeOfDay(es + 1 + rng.Intn(90)),
			})
		}

		p := Proposal{
			BlockID: block.ID,
			Date:    date,
			Start:   clock.TimeOfDay(ps),
			End:     clock.TimeOfDay(pe),
		}

		want := oracleCheck(p, existing, block)
		got := Validate(p, existing, block)

		if want == nil {
			assert.NoError(t, got,
				"case %d: block %s-%s on %s, proposal %s-%s on %s", i,
				block.Start, block.End, block.Day, p.Start, p.End, date.Format("2006-01-02"))
		} else {
			assert.ErrorIs(t, got, want,
				"case %d: block %s-%s on %s, proposal %s-%s on %s", i,
				block.Start, block.End, block.Day, p.Start, p.End, date.Format("2006-01-02"))
		}
	}
}
