package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// DepartmentResolver maps a department id to its code.
type DepartmentResolver func(id primitive.ObjectID) (models.DepartmentCode, bool)

// ResolverFromDepartments indexes reference data for Rollup.
func ResolverFromDepartments(departments []models.Department) DepartmentResolver {
	index := make(map[primitive.ObjectID]models.DepartmentCode, len(departments))
	for _, d := range departments {
		index[d.ID] = d.Code
	}
	return func(id primitive.ObjectID) (models.DepartmentCode, bool) {
		code, ok := index[id]
		return code, ok
	}
}

// EmptyRollup returns zero totals for every known department code.
func EmptyRollup() models.Rollup {
	out := make(models.Rollup, len(models.KnownCodes)+1)
	for _, code := range models.KnownCodes {
		out[code] = models.Totals{}
	}
	return out
}

// Rollup groups reports by department code and sums their counters.
//
// A report is read through the metric variant of its department's code. A
// report whose department does not resolve to a known code lands in the
// UNKNOWN bucket and is read through whichever variant it carries.
func Rollup(reports []models.DailyDepartmentReport, codeOf DepartmentResolver) models.Rollup {
	out := EmptyRollup()

	for i := range reports {
		report := &reports[i]

		code, resolved := models.CodeUnknown, false
		if codeOf != nil {
			code, resolved = codeOf(report.DepartmentID)
		}

		var totals models.Totals
		if schema, known := SchemaFor(code); resolved && known {
			totals = schema.Totals(report.MetricsFor(code))
		} else {
			code = models.CodeUnknown
			metrics := report.Metrics()
			schema, _ := SchemaOf(metrics)
			totals = schema.Totals(metrics)
		}

		out[code] = out[code].Add(totals)
	}

	return out
}

// Window is a half-open [From, Until) range of reporting days.
type Window struct {
	From  time.Time
	Until time.Time
}

// Filter converts the window into a store filter.
func (w Window) Filter() models.ReportFilter {
	from, until := w.From, w.Until
	return models.ReportFilter{From: &from, Until: &until}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.Until)
}

// MonthWindows returns the current calendar month to date (through the end
// of now's day) and the whole previous calendar month.
func MonthWindows(now time.Time) (current, previous Window) {
	today := models.TruncateToDay(now)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	current = Window{From: firstOfMonth, Until: today.AddDate(0, 0, 1)}
	previous = Window{From: firstOfMonth.AddDate(0, -1, 0), Until: firstOfMonth}
	return current, previous
}

// Compare computes the per-code percentage change from previous to current.
func Compare(current, previous models.Rollup) map[models.DepartmentCode]models.TotalsDelta {
	codes := make(map[models.DepartmentCode]struct{}, len(current))
	for code := range current {
		codes[code] = struct{}{}
	}
	for code := range previous {
		codes[code] = struct{}{}
	}

	out := make(map[models.DepartmentCode]models.TotalsDelta, len(codes))
	for code := range codes {
		cur, prev := current[code], previous[code]
		out[code] = models.TotalsDelta{
			Reports:  PctChange(float64(cur.Reports), float64(prev.Reports)),
			Installs: PctChange(cur.Installs, prev.Installs),
			Renewals: PctChange(cur.Renewals, prev.Renewals),
			Sales:    PctChange(cur.Sales, prev.Sales),
			Offline:  PctChange(cur.Offline, prev.Offline),
			Checkups: PctChange(cur.Checkups, prev.Checkups),
		}
	}
	return out
}

// PctChange returns (current-base)/base*100, or nil when base is zero.
func PctChange(current, base float64) *float64 {
	if base == 0 {
		return nil
	}
	pct := (current - base) / base * 100
	return &pct
}
