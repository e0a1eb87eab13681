package fakebackend

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
)

// problem type references used by the ASP.NET services the fake backend stands in for
var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://tools.ietf.org/html/rfc9110#section-15.5.1",
	http.StatusForbidden:           "https://tools.ietf.org/html/rfc9110#section-15.5.4",
	http.StatusNotFound:            "https://tools.ietf.org/html/rfc9110#section-15.5.5",
	http.StatusUnprocessableEntity: "https://tools.ietf.org/html/rfc4918#section-11.2",
	http.StatusTooManyRequests:     "https://tools.ietf.org/html/rfc6585#section-4",
	http.StatusInternalServerError: "https://tools.ietf.org/html/rfc9110#section-15.6.1",
}

// ProblemDetails is the error envelope returned for every failure except 401
type ProblemDetails struct {
	Type    string `json:"type,omitempty"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

func RespondWithProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	reqLogger := logger.ContextMiddlewareLogger(r.Context())

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	reqLogger.Log(r.Context(), level, "Request failed",
		slog.Int("status", status),
		slog.String("error_message", detail),
	)

	problem := ProblemDetails{
		Type:    problemTypes[status],
		Title:   http.StatusText(status),
		Status:  status,
		Detail:  detail,
		TraceID: middleware.GetReqID(r.Context()),
	}

	dat, err := json.Marshal(problem)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(dat)
}

// RespondUnauthorized answers 401 with no body, as the real services do for a missing or bad bearer token
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.ContextMiddlewareLogger(r.Context()).Warn("Request unauthorized", slog.String("reason", reason))
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"title":"Internal Server Error","status":500}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// decodeBody reads a JSON request body, answering 400 itself when the body is malformed
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondWithProblem(w, r, http.StatusBadRequest, "El cuerpo de la petición no es válido")
		return false
	}
	return true
}
