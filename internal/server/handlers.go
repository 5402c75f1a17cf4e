package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/report"
	"github.com/rshade/steelcalc/internal/tables"
)

// errTooManyItems is returned for batches above ServerConfig.MaxBatchItems.
var errTooManyItems = errors.New("too many items")

// CalcResponse is the body of a successful /api/v1/calc call.
type CalcResponse struct {
	Input   engine.Input      `json:"input"`
	Result  engine.Result     `json:"result"`
	Display map[string]string `json:"display"`
}

// TablesResponse lists the selectable keys with their looked-up values.
type TablesResponse struct {
	FlangeWidths []tables.FlangeRow `json:"flange_widths"`
	Gauges       []tables.GaugeRow  `json:"gauges"`
	Source       tables.Source      `json:"source"`
}

// BatchRequest is the body of /api/v1/calc/batch. Items are decoded over
// the server defaults one by one.
type BatchRequest struct {
	Items []json.RawMessage `json:"items"`
}

// BatchResponse holds one outcome per item, in request order.
type BatchResponse struct {
	Outcomes []batch.Outcome `json:"outcomes"`
	Summary  batch.Summary   `json:"summary"`
}

// batchItem is one batch entry: the input fields plus an optional label.
type batchItem struct {
	Label string `json:"label,omitempty"`
	engine.Input
}

// ReportRequest is the body of /api/v1/report/pdf.
type ReportRequest struct {
	Title    string          `json:"title,omitempty"`
	Project  string          `json:"project,omitempty"`
	Customer string          `json:"customer,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	Input    json.RawMessage `json:"input"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, TablesResponse{
		FlangeWidths: s.tables.FlangeRows(),
		Gauges:       s.tables.GaugeRows(),
		Source:       s.tables.Source(),
	})
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	in := s.defaults
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := engine.Compute(in, s.tables)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, r, http.StatusOK, CalcResponse{Input: in, Result: res, Display: res.Texts()})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, http.StatusBadRequest, errors.New("items: at least one item is required"))
		return
	}
	if limit := s.cfg.MaxBatchItems; limit > 0 && len(req.Items) > limit {
		writeError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d items, limit %d", errTooManyItems, len(req.Items), limit))
		return
	}

	rows := make([]engine.Row, len(req.Items))
	for i, raw := range req.Items {
		item := batchItem{Input: s.defaults}
		if err := decodeStrict(bytes.NewReader(raw), &item); err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("items[%d]: %w", i, err))
			return
		}
		rows[i] = engine.Row{Line: i + 1, Label: item.Label, Input: item.Input}
	}

	outcomes, summary, err := batch.Run(r.Context(), rows, s.tables, batch.Options{})
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, r, http.StatusOK, BatchResponse{Outcomes: outcomes, Summary: summary})
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	in := s.defaults
	if len(req.Input) > 0 {
		if err := decodeStrict(bytes.NewReader(req.Input), &in); err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("input: %w", err))
			return
		}
	}

	res, err := engine.Compute(in, s.tables)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	err = report.WritePDF(&buf, report.QuoteSheet{
		Title:    req.Title,
		Project:  req.Project,
		Customer: req.Customer,
		Notes:    req.Notes,
		Date:     time.Now(),
		Input:    in,
		Result:   res,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quote.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log := logging.FromContext(r.Context())
		log.Warn().Err(err).Msg("writing pdf response")
	}
}

// statusFor maps computation errors to HTTP status codes: bad fields are
// 400, keys missing from the reference tables are 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tables.ErrKeyNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrUnknownShape):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Msg("encoding response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", "encoding response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log := logging.FromContext(r.Context())
		log.Warn().Err(err).Msg("writing response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, r, status, ErrorResponse{
		Error:     err.Error(),
		RequestID: w.Header().Get(HeaderRequestID),
	})
}
