package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mercator-hq/meter/pkg/attachment"
	"mercator-hq/meter/pkg/dispatch"
	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/ledger/export"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/providers"
)

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Prompt      string `json:"prompt"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageMIME   string `json:"image_mime,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// QueryResponse is the body of a successful POST /v1/query.
type QueryResponse struct {
	Content         string                `json:"content"`
	Provider        string                `json:"provider"`
	Model           string                `json:"model"`
	Tracked         bool                  `json:"tracked"`
	UntrackedReason string                `json:"untracked_reason,omitempty"`
	Record          *ledger.RequestRecord `json:"record,omitempty"`
	Cost            *costs.Cost           `json:"cost,omitempty"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Summary ledger.Summary    `json:"summary"`
	Daily   []ledger.DayStats `json:"daily"`
}

// SessionsResponse is the body of GET /v1/sessions.
type SessionsResponse struct {
	DefaultSession string   `json:"default_session"`
	Sessions       []string `json:"sessions"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorTypeInvalidRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, "prompt is required")
		return
	}

	q := dispatch.Query{
		Prompt:    req.Prompt,
		Provider:  req.Provider,
		Model:     req.Model,
		SessionID: req.SessionID,
	}

	if req.ImageBase64 != "" {
		image, err := attachment.FromBase64(req.ImageBase64, req.ImageMIME)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, err.Error())
			return
		}
		q.Image = &image
	}

	result, err := s.opts.Dispatcher.Query(r.Context(), q)
	if err != nil {
		status, errType := classify(err)
		writeError(w, status, errType, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Content:         result.Content,
		Provider:        string(result.Provider),
		Model:           result.Model,
		Tracked:         result.Tracked,
		UntrackedReason: result.UntrackedReason,
		Record:          result.Record,
		Cost:            result.Cost,
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	summary, daily := s.tracker.Report(r.URL.Query().Get("session_id"))
	writeJSON(w, http.StatusOK, UsageResponse{
		Summary: summary,
		Daily:   daily,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter := ledger.Filter{
		SessionID: params.Get("session_id"),
		Model:     params.Get("model"),
	}
	if p := params.Get("provider"); p != "" {
		t, err := providers.ParseType(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, err.Error())
			return
		}
		filter.Provider = t
	}

	records := s.tracker.Records(filter)

	switch format := strings.ToLower(params.Get("format")); format {
	case "", export.FormatJSON:
		if records == nil {
			records = []ledger.RequestRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		if err := export.NewCSVExporter(true).Export(r.Context(), records, w); err != nil {
			s.logger.ErrorContext(r.Context(), "failed to write CSV records", "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.tracker.Sessions()
	if sessions == nil {
		sessions = []string{}
	}
	writeJSON(w, http.StatusOK, SessionsResponse{
		DefaultSession: s.tracker.SessionID(),
		Sessions:       sessions,
	})
}
