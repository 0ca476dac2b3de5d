package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nebsam/opsdash/internal/domain/models"
)

var activeShowroom = bson.M{"isActive": true}

// FindDepartmentByID loads one department.
func (r *MongoDBRepository) FindDepartmentByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	return r.findDepartment(ctx, bson.M{"_id": id})
}

// FindDepartmentByCode loads the department owning a code.
func (r *MongoDBRepository) FindDepartmentByCode(ctx context.Context, code models.DepartmentCode) (models.Department, error) {
	return r.findDepartment(ctx, bson.M{"code": code})
}

func (r *MongoDBRepository) findDepartment(ctx context.Context, filter bson.M) (models.Department, error) {
	var dept models.Department
	if err := r.departments().FindOne(ctx, filter).Decode(&dept); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Department{}, models.ErrUnknownDepartment
		}
		return models.Department{}, fmt.Errorf("failed to load department: %w", err)
	}
	return dept, nil
}

// ListDepartments returns every department ordered by code.
func (r *MongoDBRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	cursor, err := r.departments().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer cursor.Close(ctx)

	departments := make([]models.Department, 0)
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}
	return departments, nil
}

// CountDepartments counts every department.
func (r *MongoDBRepository) CountDepartments(ctx context.Context) (int64, error) {
	n, err := r.departments().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return n, nil
}

// FindShowroomByID loads one showroom.
func (r *MongoDBRepository) FindShowroomByID(ctx context.Context, id primitive.ObjectID) (models.Showroom, error) {
	var showroom models.Showroom
	if err := r.showrooms().FindOne(ctx, bson.M{"_id": id}).Decode(&showroom); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Showroom{}, models.ErrUnknownShowroom
		}
		return models.Showroom{}, fmt.Errorf("failed to load showroom: %w", err)
	}
	return showroom, nil
}

// ListActiveShowrooms returns the showrooms expected to report, ordered by code.
func (r *MongoDBRepository) ListActiveShowrooms(ctx context.Context) ([]models.Showroom, error) {
	cursor, err := r.showrooms().Find(ctx, activeShowroom, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query showrooms: %w", err)
	}
	defer cursor.Close(ctx)

	showrooms := make([]models.Showroom, 0)
	if err := cursor.All(ctx, &showrooms); err != nil {
		return nil, fmt.Errorf("failed to decode showrooms: %w", err)
	}
	return showrooms, nil
}

// CountActiveShowrooms counts showrooms with isActive set.
func (r *MongoDBRepository) CountActiveShowrooms(ctx context.Context) (int64, error) {
	n, err := r.showrooms().CountDocuments(ctx, activeShowroom)
	if err != nil {
		return 0, fmt.Errorf("failed to count showrooms: %w", err)
	}
	return n, nil
}
