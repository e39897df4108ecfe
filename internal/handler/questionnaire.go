package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/health-tracker/internal/middleware"
	"github.com/iliyamo/health-tracker/internal/service"
)

// QuestionnaireManager is implemented by *service.QuestionnaireService.
type QuestionnaireManager interface {
	Submit(ctx context.Context, userID uint64, in []service.ResponseInput) (string, error)
	GetByBatchID(ctx context.Context, dlqID string) (service.Batch, error)
}

// QuestionnaireHandler serves /submit-questionnaire and /dlq.
type QuestionnaireHandler struct {
	Questionnaires QuestionnaireManager
	Log            zerolog.Logger
	Timeout        time.Duration
}

func NewQuestionnaireHandler(q QuestionnaireManager, log zerolog.Logger, timeout time.Duration) *QuestionnaireHandler {
	return &QuestionnaireHandler{Questionnaires: q, Log: log, Timeout: timeout}
}

type submitReq struct {
	Responses json.RawMessage `json:"responses"`
}

type rawEntry struct {
	Section  json.RawMessage `json:"section"`
	Question json.RawMessage `json:"question"`
	Response json.RawMessage `json:"response"`
}

type answerResp struct {
	Section  string `json:"section"`
	Question string `json:"question"`
	Response string `json:"response"`
}

type batchResp struct {
	DLQID     string       `json:"dlqId"`
	Responses []answerResp `json:"responses"`
}

var jsonNull = []byte("null")

// asString accepts only JSON strings.
func asString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// coerceResponse keeps strings as they are and stores any other JSON value
// as its compact text.  null and a missing field yield nil.
func coerceResponse(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil
	}
	out := buf.String()
	return &out
}

// decodeResponses turns the request's responses array into service input.
// Entries that are not objects decode as empty and get dropped downstream.
func decodeResponses(raw json.RawMessage) ([]service.ResponseInput, bool) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil, false
	}
	in := make([]service.ResponseInput, 0, len(items))
	for _, it := range items {
		var e rawEntry
		_ = json.Unmarshal(it, &e)
		in = append(in, service.ResponseInput{
			Section:  asString(e.Section),
			Question: asString(e.Question),
			Response: coerceResponse(e.Response),
		})
	}
	return in, true
}

// Submit handles POST /submit-questionnaire.
func (h *QuestionnaireHandler) Submit(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthorized(c)
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, ok := decodeResponses(req.Responses)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "responses must be a non-empty array"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	dlqID, err := h.Questionnaires.Submit(ctx, uid, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Questionnaire submitted", "dlqId": dlqID})
}

// Get handles GET /dlq/:dlqId.
func (h *QuestionnaireHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	b, err := h.Questionnaires.GetByBatchID(ctx, c.Param("dlqId"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := batchResp{DLQID: b.DLQID, Responses: make([]answerResp, len(b.Responses))}
	for i, a := range b.Responses {
		out.Responses[i] = answerResp{Section: a.Section, Question: a.Question, Response: a.Response}
	}
	return c.JSON(http.StatusOK, out)
}
