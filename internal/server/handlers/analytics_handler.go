package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/domain/models"
	"github.com/nebsam/opsdash/internal/service/reporting"
)

// AnalyticsService is the reporting surface exposed over HTTP.
type AnalyticsService interface {
	Daily(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error)
	Trends(ctx context.Context, departmentID, showroomID *primitive.ObjectID) (models.TrendReport, error)
	SubmissionStatus(ctx context.Context, day *time.Time) (models.SubmissionStatus, error)
	MissingSubmissions(ctx context.Context, day *time.Time) (models.MissingSubmissions, error)
	Monthly(ctx context.Context) (models.MonthlyRollup, error)
	SubmitReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error)
}

// AnalyticsHandler serves the dashboard analytics and report submission.
type AnalyticsHandler struct {
	svc    AnalyticsService
	logger *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

type dailyQuery struct {
	StartDate    string `form:"startDate" binding:"omitempty,day"`
	EndDate      string `form:"endDate" binding:"omitempty,day"`
	DepartmentID string `form:"departmentId" binding:"omitempty,objectid"`
	ShowroomID   string `form:"showroomId" binding:"omitempty,objectid"`
}

type scopeQuery struct {
	DepartmentID string `form:"departmentId" binding:"omitempty,objectid"`
	ShowroomID   string `form:"showroomId" binding:"omitempty,objectid"`
}

type dayQuery struct {
	Date string `form:"date" binding:"omitempty,day"`
}

// Daily counts reports by day, department and overall. endDate is inclusive.
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	var q dailyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return
	}

	var filter models.ReportFilter
	var err error
	if filter.From, err = optionalDay(q.StartDate); err != nil {
		h.fail(c, err)
		return
	}
	if filter.Until, err = optionalDay(q.EndDate); err != nil {
		h.fail(c, err)
		return
	}
	if filter.Until != nil {
		next := filter.Until.AddDate(0, 0, 1)
		filter.Until = &next
	}
	if filter.DepartmentID, err = optionalID(q.DepartmentID); err != nil {
		h.fail(c, err)
		return
	}
	if filter.ShowroomID, err = optionalID(q.ShowroomID); err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.svc.Daily(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Trends returns today's activity against yesterday and the trailing week.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	var q scopeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return
	}

	departmentID, err := optionalID(q.DepartmentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	showroomID, err := optionalID(q.ShowroomID)
	if err != nil {
		h.fail(c, err)
		return
	}

	trend, err := h.svc.Trends(c.Request.Context(), departmentID, showroomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// SubmissionStatus returns expected versus submitted reports for a day.
func (h *AnalyticsHandler) SubmissionStatus(c *gin.Context) {
	day, ok := h.bindDay(c)
	if !ok {
		return
	}

	status, err := h.svc.SubmissionStatus(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Missing lists who has not reported for a day.
func (h *AnalyticsHandler) Missing(c *gin.Context) {
	day, ok := h.bindDay(c)
	if !ok {
		return
	}

	missing, err := h.svc.MissingSubmissions(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, missing)
}

// Monthly returns the current and previous month rollups.
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	rollup, err := h.svc.Monthly(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

type reportRequest struct {
	ReportDate   string `json:"reportDate" binding:"required,day"`
	DepartmentID string `json:"departmentId" binding:"required,objectid"`
	ShowroomID   string `json:"showroomId" binding:"omitempty,objectid"`
	SubmittedBy  string `json:"submittedBy" binding:"omitempty,objectid"`

	Tracking          *models.TrackingMetrics          `json:"tracking"`
	SpeedGovernor     *models.SpeedGovernorMetrics     `json:"speedGovernor"`
	Radio             *models.RadioMetrics             `json:"radio"`
	Fuel              *models.FuelMetrics              `json:"fuel"`
	VehicleTelematics *models.VehicleTelematicsMetrics `json:"vehicleTelematics"`
	Online            *models.OnlineMetrics            `json:"online"`

	Notes   string          `json:"notes"`
	Revenue *models.Revenue `json:"revenue"`
}

func (r reportRequest) toModel() (models.DailyDepartmentReport, error) {
	day, err := models.ParseDay(r.ReportDate)
	if err != nil {
		return models.DailyDepartmentReport{}, err
	}
	departmentID, err := models.ParseObjectID(r.DepartmentID)
	if err != nil {
		return models.DailyDepartmentReport{}, err
	}
	showroomID, err := optionalID(r.ShowroomID)
	if err != nil {
		return models.DailyDepartmentReport{}, err
	}

	report := models.DailyDepartmentReport{
		ReportDate:        day,
		DepartmentID:      departmentID,
		ShowroomID:        showroomID,
		Tracking:          r.Tracking,
		SpeedGovernor:     r.SpeedGovernor,
		Radio:             r.Radio,
		Fuel:              r.Fuel,
		VehicleTelematics: r.VehicleTelematics,
		Online:            r.Online,
		Notes:             r.Notes,
		Revenue:           r.Revenue,
	}
	if r.SubmittedBy != "" {
		if report.SubmittedBy, err = models.ParseObjectID(r.SubmittedBy); err != nil {
			return models.DailyDepartmentReport{}, err
		}
	}
	return report, nil
}

// SubmitReport creates or replaces the report for its day, department and
// showroom.
func (h *AnalyticsHandler) SubmitReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	report, err := req.toModel()
	if err != nil {
		h.fail(c, err)
		return
	}

	saved, err := h.svc.SubmitReport(c.Request.Context(), report)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *AnalyticsHandler) bindDay(c *gin.Context) (*time.Time, bool) {
	var q dayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return nil, false
	}
	day, err := optionalDay(q.Date)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return day, true
}

func (h *AnalyticsHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *AnalyticsHandler) fail(c *gin.Context, err error) {
	if isClientError(err) {
		h.badRequest(c, err)
		return
	}
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func isClientError(err error) bool {
	return errors.Is(err, models.ErrInvalidDate) ||
		errors.Is(err, models.ErrInvalidObjectID) ||
		errors.Is(err, reporting.ErrInvalidReport)
}

func optionalDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := models.ParseDay(value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func optionalID(value string) (*primitive.ObjectID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := models.ParseObjectID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
