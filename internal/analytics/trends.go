package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// TrendDays is the number of days before today that feed the weekly average.
const TrendDays = 7

// AveragePolicy selects the denominator of the trailing-week average.
type AveragePolicy string

const (
	// AverageFixedWindow divides by TrendDays; days without reports count as zero.
	AverageFixedWindow AveragePolicy = "fixed"
	// AveragePresentDays divides by the number of prior days that have reports.
	AveragePresentDays AveragePolicy = "present"
)

// ParseAveragePolicy validates a configured policy name.
func ParseAveragePolicy(value string) (AveragePolicy, error) {
	switch AveragePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case AverageFixedWindow, "":
		return AverageFixedWindow, nil
	case AveragePresentDays:
		return AveragePresentDays, nil
	}
	return "", fmt.Errorf("unknown trend average policy %q", value)
}

// TrendWindow covers today and the TrendDays days before it.
func TrendWindow(now time.Time) Window {
	today := models.TruncateToDay(now)
	return Window{From: today.AddDate(0, 0, -TrendDays), Until: today.AddDate(0, 0, 1)}
}

// ActivityVolume sums every countable counter a report carries.
func ActivityVolume(report *models.DailyDepartmentReport) float64 {
	var total float64
	for _, code := range report.PopulatedFamilies() {
		total += Volume(report.MetricsFor(code))
	}
	return total
}

// DailyVolumes sums activity volume per UTC reporting day.
func DailyVolumes(reports []models.DailyDepartmentReport) map[time.Time]float64 {
	out := make(map[time.Time]float64)
	for i := range reports {
		day := models.TruncateToDay(reports[i].ReportDate)
		out[day] += ActivityVolume(&reports[i])
	}
	return out
}

// Trends computes day-over-day and week-over-week activity changes. Reports
// outside TrendWindow(now) are ignored.
func Trends(reports []models.DailyDepartmentReport, now time.Time, policy AveragePolicy) models.TrendReport {
	window := TrendWindow(now)
	today := models.TruncateToDay(now)

	inWindow := make([]models.DailyDepartmentReport, 0, len(reports))
	for _, r := range reports {
		if window.Contains(models.TruncateToDay(r.ReportDate)) {
			inWindow = append(inWindow, r)
		}
	}
	volumes := DailyVolumes(inWindow)

	series := make([]models.SeriesPoint, 0, len(volumes))
	for day, volume := range volumes {
		series = append(series, models.SeriesPoint{Date: day, Volume: volume})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	var priorSum float64
	var presentDays int
	for d := 1; d <= TrendDays; d++ {
		if volume, ok := volumes[today.AddDate(0, 0, -d)]; ok {
			priorSum += volume
			presentDays++
		}
	}

	var lastWeekAvg float64
	switch policy {
	case AveragePresentDays:
		if presentDays > 0 {
			lastWeekAvg = priorSum / float64(presentDays)
		}
	default:
		lastWeekAvg = priorSum / TrendDays
	}

	todayVolume := volumes[today]
	yesterdayVolume := volumes[today.AddDate(0, 0, -1)]

	return models.TrendReport{
		Today:            todayVolume,
		Yesterday:        yesterdayVolume,
		PctVsYesterday:   PctChange(todayVolume, yesterdayVolume),
		LastWeekAvg:      lastWeekAvg,
		PctVsLastWeekAvg: PctChange(todayVolume, lastWeekAvg),
		Series:           series,
	}
}
