package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// Completeness compares the reports received for day with the number
// expected. The tracking department reports once per active showroom, so
// it is taken out of the per-department count and replaced by showrooms.
func Completeness(day time.Time, departments, activeShowrooms, submitted int64) models.SubmissionStatus {
	perDepartment := departments - 1
	if perDepartment < 0 {
		perDepartment = 0
	}
	expected := perDepartment + activeShowrooms

	var completion float64
	if expected > 0 {
		completion = float64(submitted) / float64(expected)
	}

	return models.SubmissionStatus{
		Date:       models.TruncateToDay(day),
		Expected:   expected,
		Submitted:  submitted,
		Completion: completion,
	}
}

// Missing lists the non-tracking departments and active showrooms that have
// no report for the day among reports.
func Missing(day time.Time, trackingCode models.DepartmentCode, departments []models.Department, activeShowrooms []models.Showroom, reports []models.DailyDepartmentReport) models.MissingSubmissions {
	day = models.TruncateToDay(day)

	reportedDepartments := make(map[primitive.ObjectID]bool)
	reportedShowrooms := make(map[primitive.ObjectID]bool)
	for _, r := range reports {
		if !models.TruncateToDay(r.ReportDate).Equal(day) {
			continue
		}
		reportedDepartments[r.DepartmentID] = true
		if r.ShowroomID != nil {
			reportedShowrooms[*r.ShowroomID] = true
		}
	}

	out := models.MissingSubmissions{
		Date:        day,
		Departments: []models.Department{},
		Showrooms:   []models.Showroom{},
	}
	for _, d := range departments {
		if d.Code == trackingCode {
			continue
		}
		if !reportedDepartments[d.ID] {
			out.Departments = append(out.Departments, d)
		}
	}
	for _, s := range activeShowrooms {
		if !s.IsActive {
			continue
		}
		if !reportedShowrooms[s.ID] {
			out.Showrooms = append(out.Showrooms, s)
		}
	}

	return out
}
