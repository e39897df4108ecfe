package router // package router registers every HTTP route of the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-tracker/internal/handler"
	"github.com/iliyamo/health-tracker/internal/middleware"
)

// Deps carries the handlers and the per-route middleware built in main.
// Nil middlewares are treated as pass-through.
type Deps struct {
	Auth           *handler.AuthHandler
	Records        *handler.RecordHandler
	Questionnaires *handler.QuestionnaireHandler
	DB             handler.Pinger
	JWTSecret      string
	RateLimit      echo.MiddlewareFunc
	Cache          echo.MiddlewareFunc
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

// RegisterRoutes wires the probes plus the auth, record and questionnaire
// endpoints on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))

	limit := orPass(d.RateLimit)
	RegisterAuth(e, d.Auth, limit)
	RegisterRecords(e, d.Records, middleware.JWTAuth(d.JWTSecret), limit)
	RegisterQuestionnaires(e, d.Questionnaires, middleware.JWTAuth(d.JWTSecret), limit, orPass(d.Cache))
}

// RegisterAuth maps /register and /login.  Both are rate limited per client
// IP since there is no user yet.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.POST("/register", a.Register, limit)
	e.POST("/login", a.Login, limit)
}

// RegisterRecords maps the record routes.  Reads are public; writes need a
// bearer token.  The limiter runs after JWTAuth so buckets are per user.
//
// Middleware is attached per route rather than through a root group: a group
// with an empty prefix would also guard unknown paths with JWTAuth.
func RegisterRecords(e *echo.Echo, r *handler.RecordHandler, auth, limit echo.MiddlewareFunc) {
	e.GET("/record/:reportId", r.Get)
	e.POST("/record", r.Create, auth, limit)
	e.PUT("/record/:reportId", r.Update, auth, limit)
}

// RegisterQuestionnaires maps the questionnaire routes.  Batches never change
// after submission, so GET /dlq/:dlqId is the one cached route.
func RegisterQuestionnaires(e *echo.Echo, q *handler.QuestionnaireHandler, auth, limit, cache echo.MiddlewareFunc) {
	e.POST("/submit-questionnaire", q.Submit, auth, limit)
	e.GET("/dlq/:dlqId", q.Get, cache)
}
