package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name        string
		departments int64
		showrooms   int64
		submitted   int64
		expected    int64
		completion  float64
	}{
		{name: "six departments two showrooms", departments: 6, showrooms: 2, submitted: 3, expected: 7, completion: 3.0 / 7.0},
		{name: "all in", departments: 6, showrooms: 2, submitted: 7, expected: 7, completion: 1},
		{name: "nothing expected", departments: 0, showrooms: 0, submitted: 0, expected: 0, completion: 0},
		{name: "single tracking department", departments: 1, showrooms: 0, submitted: 2, expected: 0, completion: 0},
		{name: "showrooms only", departments: 0, showrooms: 3, submitted: 1, expected: 3, completion: 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Completeness(day.Add(5*time.Hour), tt.departments, tt.showrooms, tt.submitted)
			assert.Equal(t, day, status.Date)
			assert.Equal(t, tt.expected, status.Expected)
			assert.Equal(t, tt.submitted, status.Submitted)
			assert.InDelta(t, tt.completion, status.Completion, 1e-9)
		})
	}
}

func TestMissing(t *testing.T) {
	f := newFixture()
	nairobi := models.Showroom{ID: primitive.NewObjectID(), Code: "NRB", IsActive: true}
	mombasa := models.Showroom{ID: primitive.NewObjectID(), Code: "MSA", IsActive: true}
	closed := models.Showroom{ID: primitive.NewObjectID(), Code: "KSM", IsActive: false}

	track := f.report(models.CodeTracking, day, &models.TrackingMetrics{})
	track.ShowroomID = &nairobi.ID
	reports := []models.DailyDepartmentReport{
		track,
		f.report(models.CodeSpeedGovernor, day, &models.SpeedGovernorMetrics{}),
		f.report(models.CodeRadio, day.AddDate(0, 0, -1), &models.RadioMetrics{}),
	}

	missing := Missing(day, models.CodeTracking, f.departments, []models.Showroom{nairobi, mombasa, closed}, reports)

	var codes []models.DepartmentCode
	for _, d := range missing.Departments {
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []models.DepartmentCode{models.CodeRadio, models.CodeFuel, models.CodeVehicleTelematics, models.CodeOnline}, codes)
	assert.Equal(t, []models.Showroom{mombasa}, missing.Showrooms)
}
