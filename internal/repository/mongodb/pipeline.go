package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// reportMatch builds the $match document for a report filter.
func reportMatch(f models.ReportFilter) bson.M {
	match := bson.M{}

	if f.From != nil || f.Until != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = models.TruncateToDay(*f.From)
		}
		if f.Until != nil {
			dateRange["$lt"] = models.TruncateToDay(*f.Until)
		}
		match["reportDate"] = dateRange
	}
	if f.DepartmentID != nil {
		match["departmentId"] = *f.DepartmentID
	}
	if f.ShowroomID != nil {
		match["showroomId"] = *f.ShowroomID
	}

	return match
}

// summaryPipeline counts matching reports by date, by department and in
// total with a single $facet stage.
func summaryPipeline(f models.ReportFilter) []bson.M {
	countBy := func(key interface{}) []bson.M {
		return []bson.M{
			{"$group": bson.M{"_id": key, "reports": bson.M{"$sum": 1}}},
			{"$sort": bson.M{"_id": 1}},
		}
	}

	return []bson.M{
		{"$match": reportMatch(f)},
		{"$facet": bson.M{
			"byDate": countBy("$reportDate"),
			"byDept": countBy("$departmentId"),
			"total":  countBy(nil),
		}},
	}
}

// reportUpsert builds the filter and update that replace a report's whole
// content on its (reportDate, departmentId, showroomId) key. Every metric
// sub-object is written, so the ones not carried become null.
func reportUpsert(r models.DailyDepartmentReport) (bson.M, bson.M) {
	day := models.TruncateToDay(r.ReportDate)

	filter := bson.M{
		"reportDate":   day,
		"departmentId": r.DepartmentID,
		"showroomId":   r.ShowroomID,
	}

	set := bson.M{
		"reportDate":        day,
		"departmentId":      r.DepartmentID,
		"showroomId":        r.ShowroomID,
		"tracking":          r.Tracking,
		"speedGovernor":     r.SpeedGovernor,
		"radio":             r.Radio,
		"fuel":              r.Fuel,
		"vehicleTelematics": r.VehicleTelematics,
		"online":            r.Online,
		"notes":             r.Notes,
		"revenue":           r.Revenue,
		"updatedAt":         r.UpdatedAt,
	}
	if !r.SubmittedBy.IsZero() {
		set["submittedBy"] = r.SubmittedBy
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": r.UpdatedAt},
	}

	return filter, update
}
