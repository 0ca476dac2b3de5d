package analytics

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// Matches reports whether a report satisfies the filter.
func Matches(r *models.DailyDepartmentReport, f models.ReportFilter) bool {
	day := models.TruncateToDay(r.ReportDate)
	if f.From != nil && day.Before(*f.From) {
		return false
	}
	if f.Until != nil && !day.Before(*f.Until) {
		return false
	}
	if f.DepartmentID != nil && r.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.ShowroomID != nil && !models.SameShowroom(r.ShowroomID, f.ShowroomID) {
		return false
	}
	return true
}

// Summarize counts reports by day, by department and overall. The output
// has the same shape as the store-side facet aggregation: rows sorted by
// _id and an empty total when nothing matched.
func Summarize(reports []models.DailyDepartmentReport) models.DailySummary {
	byDate := make(map[time.Time]int64)
	byDept := make(map[primitive.ObjectID]int64)

	for i := range reports {
		byDate[models.TruncateToDay(reports[i].ReportDate)]++
		byDept[reports[i].DepartmentID]++
	}

	out := models.DailySummary{
		ByDate: make([]models.DateCount, 0, len(byDate)),
		ByDept: make([]models.DepartmentCount, 0, len(byDept)),
		Total:  []models.TotalCount{},
	}
	for day, n := range byDate {
		out.ByDate = append(out.ByDate, models.DateCount{ID: day, Reports: n})
	}
	for id, n := range byDept {
		out.ByDept = append(out.ByDept, models.DepartmentCount{ID: id, Reports: n})
	}
	sort.Slice(out.ByDate, func(i, j int) bool { return out.ByDate[i].ID.Before(out.ByDate[j].ID) })
	sort.Slice(out.ByDept, func(i, j int) bool { return out.ByDept[i].ID.Hex() < out.ByDept[j].ID.Hex() })

	if len(reports) > 0 {
		out.Total = append(out.Total, models.TotalCount{Reports: int64(len(reports))})
	}

	return out
}
