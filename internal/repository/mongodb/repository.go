package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/config"
	"github.com/nebsam/opsdash/internal/domain/models"
)

const (
	reportsCollection     = "daily_department_reports"
	departmentsCollection = "departments"
	showroomsCollection   = "showrooms"
)

// Repository defines the storage operations used by the analytics services.
type Repository interface {
	FindReports(ctx context.Context, filter models.ReportFilter) ([]models.DailyDepartmentReport, error)
	CountReports(ctx context.Context, filter models.ReportFilter) (int64, error)
	SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error)
	UpsertReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error)

	FindDepartmentByID(ctx context.Context, id primitive.ObjectID) (models.Department, error)
	FindDepartmentByCode(ctx context.Context, code models.DepartmentCode) (models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	CountDepartments(ctx context.Context) (int64, error)

	FindShowroomByID(ctx context.Context, id primitive.ObjectID) (models.Showroom, error)
	ListActiveShowrooms(ctx context.Context) ([]models.Showroom, error)
	CountActiveShowrooms(ctx context.Context) (int64, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
	now    func() time.Time
}

var _ Repository = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects to MongoDB, retrying with exponential
// backoff, and makes sure the indexes the analytics rely on exist.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var client *mongo.Client
	connect := func() error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			return fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(ctx)
			return fmt.Errorf("failed to ping mongodb: %w", err)
		}
		client = c
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.ConnectRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("mongodb not reachable, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, err
	}

	repo := &MongoDBRepository{
		client: client,
		db:     client.Database(cfg.DBName),
		logger: logger,
		now:    time.Now,
	}

	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("mongodb repository ready", zap.String("database", cfg.DBName))
	return repo, nil
}

// EnsureIndexes creates the unique indexes backing the data model invariants.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		reportsCollection: {
			{
				Keys:    bson.D{{Key: "reportDate", Value: 1}, {Key: "departmentId", Value: 1}, {Key: "showroomId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_report_day_department_showroom"),
			},
			{
				Keys:    bson.D{{Key: "departmentId", Value: 1}, {Key: "reportDate", Value: -1}},
				Options: options.Index().SetName("department_report_date"),
			},
		},
		departmentsCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_department_code")},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_department_name")},
		},
		showroomsCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_showroom_code")},
		},
	}

	for name, idx := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) reports() *mongo.Collection {
	return r.db.Collection(reportsCollection)
}

func (r *MongoDBRepository) departments() *mongo.Collection {
	return r.db.Collection(departmentsCollection)
}

func (r *MongoDBRepository) showrooms() *mongo.Collection {
	return r.db.Collection(showroomsCollection)
}
