package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of period dates.
const DateLayout = "2006-01-02"

// Period is one calendar month, identified by its last day.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod derives the month containing periodEnd. Any day of the month
// is accepted; End is normalised to the month's last day.
func NewPeriod(periodEnd time.Time) (Period, error) {
	if periodEnd.IsZero() {
		return Period{}, ErrInvalidPeriod
	}

	y, m, _ := periodEnd.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	return Period{Start: start, End: end}, nil
}

// ParsePeriod parses a YYYY-MM-DD date into its period.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidPeriod, s)
	}
	return NewPeriod(t)
}

// String returns the period end as YYYY-MM-DD.
func (p Period) String() string {
	return p.End.Format(DateLayout)
}

// Key identifies the period of one business, used for run serialisation.
func (p Period) Key(businessID string) string {
	return businessID + ":" + p.String()
}
