package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportFilter narrows report queries. From is inclusive, Until exclusive;
// nil fields do not filter.
type ReportFilter struct {
	From         *time.Time
	Until        *time.Time
	DepartmentID *primitive.ObjectID
	ShowroomID   *primitive.ObjectID
}

// Totals are the numeric rollups of one department family. Fields that do
// not apply to a family stay zero.
type Totals struct {
	Reports  int64   `json:"reports"`
	Installs float64 `json:"installs"`
	Renewals float64 `json:"renewals"`
	Sales    float64 `json:"sales"`
	Offline  float64 `json:"offline"`
	Checkups float64 `json:"checkups"`
}

// Add accumulates other into t.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Reports:  t.Reports + other.Reports,
		Installs: t.Installs + other.Installs,
		Renewals: t.Renewals + other.Renewals,
		Sales:    t.Sales + other.Sales,
		Offline:  t.Offline + other.Offline,
		Checkups: t.Checkups + other.Checkups,
	}
}

// Rollup maps department codes to their totals. Every known code is present.
type Rollup map[DepartmentCode]Totals

// TotalsDelta holds period-over-period percentage changes; nil when the
// previous value is zero.
type TotalsDelta struct {
	Reports  *float64 `json:"reports"`
	Installs *float64 `json:"installs"`
	Renewals *float64 `json:"renewals"`
	Sales    *float64 `json:"sales"`
	Offline  *float64 `json:"offline"`
	Checkups *float64 `json:"checkups"`
}

// MonthlyRollup compares the current month to date with the previous month.
type MonthlyRollup struct {
	Current  Rollup                         `json:"current"`
	Previous Rollup                         `json:"previous"`
	Delta    map[DepartmentCode]TotalsDelta `json:"delta"`
}

// SeriesPoint is the activity volume of one reporting day.
type SeriesPoint struct {
	Date   time.Time `json:"_id"`
	Volume float64   `json:"sales"`
}

// TrendReport compares today's activity volume with yesterday and the
// trailing week.
type TrendReport struct {
	Today            float64       `json:"todaySales"`
	Yesterday        float64       `json:"yesterdaySales"`
	PctVsYesterday   *float64      `json:"pctVsYesterday"`
	LastWeekAvg      float64       `json:"lastWeekAvg"`
	PctVsLastWeekAvg *float64      `json:"pctVsLastWeek"`
	Series           []SeriesPoint `json:"series"`
}

// SubmissionStatus reports expected versus received reports for a day.
type SubmissionStatus struct {
	Date       time.Time `json:"date"`
	Expected   int64     `json:"expected"`
	Submitted  int64     `json:"submitted"`
	Completion float64   `json:"completion"`
}

// MissingSubmissions lists who has not reported for a day.
type MissingSubmissions struct {
	Date        time.Time    `json:"date"`
	Departments []Department `json:"departments"`
	Showrooms   []Showroom   `json:"showrooms"`
}

// DateCount is one row of the by-date facet.
type DateCount struct {
	ID      time.Time `bson:"_id" json:"_id"`
	Reports int64     `bson:"reports" json:"reports"`
}

// DepartmentCount is one row of the by-department facet.
type DepartmentCount struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Reports int64              `bson:"reports" json:"reports"`
}

// TotalCount is the single row of the total facet; ID is always null.
type TotalCount struct {
	ID      *string `bson:"_id" json:"_id"`
	Reports int64   `bson:"reports" json:"reports"`
}

// DailySummary counts reports by day, by department and overall.
type DailySummary struct {
	ByDate []DateCount       `bson:"byDate" json:"byDate"`
	ByDept []DepartmentCount `bson:"byDept" json:"byDept"`
	Total  []TotalCount      `bson:"total" json:"total"`
}
