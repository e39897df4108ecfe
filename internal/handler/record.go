package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/health-tracker/internal/middleware"
	"github.com/iliyamo/health-tracker/internal/model"
	"github.com/iliyamo/health-tracker/internal/service"
)

// RecordManager is implemented by *service.RecordService.
type RecordManager interface {
	CreateRecord(ctx context.Context, userID uint64, in service.RecordInput) (string, error)
	GetRecord(ctx context.Context, reportID string) (model.RecordView, error)
	UpdateRecord(ctx context.Context, actorID uint64, reportID string, in service.RecordInput) error
}

// RecordHandler serves /record.
type RecordHandler struct {
	Records RecordManager
	Log     zerolog.Logger
	Timeout time.Duration
}

func NewRecordHandler(records RecordManager, log zerolog.Logger, timeout time.Duration) *RecordHandler {
	return &RecordHandler{Records: records, Log: log, Timeout: timeout}
}

type recordReq struct {
	Condition string `json:"condition"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
}

func (r recordReq) input() service.RecordInput {
	return service.RecordInput{Condition: r.Condition, DOB: r.DOB, Gender: r.Gender}
}

type recordResp struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	ReportID  string `json:"report_id"`
}

// Create handles POST /record for the authenticated user.
func (h *RecordHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	reportID, err := h.Records.CreateRecord(ctx, uid, req.input())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Health record saved", "reportId": reportID})
}

// Get handles GET /record/:reportId.  No authentication is required.
func (h *RecordHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	v, err := h.Records.GetRecord(ctx, c.Param("reportId"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, recordResp{
		Name:      v.Name,
		Condition: v.Condition,
		DOB:       service.FormatDOB(v.DOB),
		Gender:    v.Gender,
		ReportID:  v.ReportID,
	})
}

// Update handles PUT /record/:reportId.  The caller must be authenticated
// but need not own the record.
func (h *RecordHandler) Update(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	if err := h.Records.UpdateRecord(ctx, uid, c.Param("reportId"), req.input()); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Health record updated"})
}
