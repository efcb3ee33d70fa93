package ledger

import (
	"time"

	"freight-admin/apperrors"

	"github.com/jinzhu/now"
)

// ReportQuery holds the raw date bounds of a report or list request.
type ReportQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// Window is an inclusive date range; a nil bound leaves that side open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Window parses and checks the bounds.
func (q ReportQuery) Window() (Window, error) {
	var w Window
	if q.StartDate != "" {
		d, err := ParseDate(q.StartDate)
		if err != nil {
			return Window{}, apperrors.NewValidation("start_date", "must be a date in YYYY-MM-DD format")
		}
		w.Start = &d
	}
	if q.EndDate != "" {
		d, err := ParseDate(q.EndDate)
		if err != nil {
			return Window{}, apperrors.NewValidation("end_date", "must be a date in YYYY-MM-DD format")
		}
		w.End = &d
	}
	if w.Start != nil && w.End != nil && w.End.Before(*w.Start) {
		return Window{}, apperrors.NewValidation("end_date", "must not be before start_date")
	}
	return w, nil
}

// Lower is the first instant inside the window.
func (w Window) Lower() *time.Time {
	if w.Start == nil {
		return nil
	}
	t := now.With(w.Start.UTC()).BeginningOfDay()
	return &t
}

// UpperExclusive is the first instant after the window.
func (w Window) UpperExclusive() *time.Time {
	if w.End == nil {
		return nil
	}
	t := now.With(w.End.UTC()).BeginningOfDay().AddDate(0, 0, 1)
	return &t
}
