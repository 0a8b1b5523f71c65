package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/types"
)

// Quarter is one fixed calendar quarter: Q1=Jan-Mar, Q2=Apr-Jun,
// Q3=Jul-Sep, Q4=Oct-Dec. The zero value is not a valid quarter.
type Quarter struct {
	Year  int
	Index int // 1..4
}

// quarter-end days are fixed: Mar 31, Jun 30, Sep 30, Dec 31.
// February never ends a quarter, so leap years need no handling here.
var quarterEndDay = [5]int{0, 31, 30, 30, 31}

// QuarterOf returns the calendar quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{
		Year:  t.Year(),
		Index: (int(t.Month())-1)/3 + 1,
	}
}

// PreviousQuarter returns the calendar quarter immediately before the one
// containing ref. A reference in Q1 resolves to Q4 of the previous year.
func PreviousQuarter(ref time.Time) Quarter {
	q := QuarterOf(ref)
	if q.Index == 1 {
		return Quarter{Year: q.Year - 1, Index: 4}
	}
	return Quarter{Year: q.Year, Index: q.Index - 1}
}

// ParseLabel parses a label of the form "2024-Q3" back into a Quarter.
func ParseLabel(label types.QuarterLabel) (Quarter, error) {
	var q Quarter
	n, err := fmt.Sscanf(label.String(), "%d-Q%d", &q.Year, &q.Index)
	if err != nil || n != 2 {
		return Quarter{}, goerr.New("invalid quarter label", goerr.V("label", label))
	}
	if q.Index < 1 || q.Index > 4 || q.Year < 1 {
		return Quarter{}, goerr.New("quarter label out of range", goerr.V("label", label))
	}
	return q, nil
}

// Label returns the canonical "YYYY-QN" label.
func (q Quarter) Label() types.QuarterLabel {
	return types.QuarterLabel(fmt.Sprintf("%d-Q%d", q.Year, q.Index))
}

// Start returns the first instant of the quarter (UTC).
func (q Quarter) Start() time.Time {
	month := time.Month((q.Index-1)*3 + 1)
	return time.Date(q.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last inclusive instant of the quarter (UTC).
func (q Quarter) End() time.Time {
	d := q.LastDay()
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}

// LastDay returns midnight of the quarter's last calendar day, used as the
// reporting date key.
func (q Quarter) LastDay() time.Time {
	month := time.Month(q.Index * 3)
	return time.Date(q.Year, month, quarterEndDay[q.Index], 0, 0, 0, 0, time.UTC)
}

// DateKey returns the quarter's last calendar day as "YYYY-MM-DD".
func (q Quarter) DateKey() string {
	return q.LastDay().Format("2006-01-02")
}

// Contains reports whether t falls within the quarter's inclusive interval.
func (q Quarter) Contains(t time.Time) bool {
	return !t.Before(q.Start()) && !t.After(q.End())
}
