package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// FindReports returns the reports matching the filter ordered by date.
func (r *MongoDBRepository) FindReports(ctx context.Context, filter models.ReportFilter) ([]models.DailyDepartmentReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reportDate", Value: 1}})

	cursor, err := r.reports().Find(ctx, reportMatch(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.DailyDepartmentReport, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}
	return reports, nil
}

// CountReports counts the reports matching the filter.
func (r *MongoDBRepository) CountReports(ctx context.Context, filter models.ReportFilter) (int64, error) {
	n, err := r.reports().CountDocuments(ctx, reportMatch(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count daily reports: %w", err)
	}
	return n, nil
}

// SummarizeReports runs the by-date / by-department / total facet aggregation.
func (r *MongoDBRepository) SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error) {
	cursor, err := r.reports().Aggregate(ctx, summaryPipeline(filter))
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to aggregate daily reports: %w", err)
	}
	defer cursor.Close(ctx)

	var summary models.DailySummary
	if cursor.Next(ctx) {
		if err := cursor.Decode(&summary); err != nil {
			return models.DailySummary{}, fmt.Errorf("failed to decode report summary: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to read report summary: %w", err)
	}

	if summary.ByDate == nil {
		summary.ByDate = []models.DateCount{}
	}
	if summary.ByDept == nil {
		summary.ByDept = []models.DepartmentCount{}
	}
	if summary.Total == nil {
		summary.Total = []models.TotalCount{}
	}
	return summary, nil
}

// UpsertReport inserts the report or replaces the one already stored for
// the same day, department and showroom.
func (r *MongoDBRepository) UpsertReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error) {
	if report.UpdatedAt.IsZero() {
		report.UpdatedAt = r.now().UTC()
	}
	filter, update := reportUpsert(report)

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.DailyDepartmentReport
	if err := r.reports().FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return models.DailyDepartmentReport{}, fmt.Errorf("failed to upsert daily report: %w", err)
	}

	r.logger.Debug("daily report upserted",
		zap.String("report_id", saved.ID.Hex()),
		zap.String("department_id", saved.DepartmentID.Hex()),
		zap.Time("report_date", saved.ReportDate))
	return saved, nil
}
