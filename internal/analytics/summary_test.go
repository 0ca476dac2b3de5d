package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

func TestSummarize(t *testing.T) {
	f := newFixture()
	reports := []models.DailyDepartmentReport{
		f.report(models.CodeRadio, day, &models.RadioMetrics{}),
		f.report(models.CodeFuel, day, &models.FuelMetrics{}),
		f.report(models.CodeRadio, day.AddDate(0, 0, -1), &models.RadioMetrics{}),
	}

	summary := Summarize(reports)

	assert.Equal(t, []models.DateCount{
		{ID: day.AddDate(0, 0, -1), Reports: 1},
		{ID: day, Reports: 2},
	}, summary.ByDate)
	require.Len(t, summary.ByDept, 2)
	for _, row := range summary.ByDept {
		if row.ID == f.ids[models.CodeRadio] {
			assert.Equal(t, int64(2), row.Reports)
		}
	}
	assert.Equal(t, []models.TotalCount{{Reports: 3}}, summary.Total)

	empty := Summarize(nil)
	assert.NotNil(t, empty.ByDate)
	assert.Empty(t, empty.Total)
}

func TestMatches(t *testing.T) {
	showroom := primitive.NewObjectID()
	other := primitive.NewObjectID()
	r := models.DailyDepartmentReport{ReportDate: day, DepartmentID: other, ShowroomID: &showroom}

	from, until := day, day.AddDate(0, 0, 1)
	assert.True(t, Matches(&r, models.ReportFilter{From: &from, Until: &until}))
	assert.False(t, Matches(&r, models.ReportFilter{Until: &from}))
	assert.True(t, Matches(&r, models.ReportFilter{ShowroomID: &showroom, DepartmentID: &other}))
	assert.False(t, Matches(&r, models.ReportFilter{ShowroomID: &other}))
}
