package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/heldkarp/instance"
	"github.com/katalvlaran/heldkarp/runner"
	"github.com/katalvlaran/heldkarp/tsp"
)

// MaxTraceCities bounds ?trace=true requests: the event list grows as 2ⁿ·n².
const MaxTraceCities = 8

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// SolveResponse is the body of a 200 reply to POST /v1/solve. NotFound and
// TooLarge outcomes are 200 responses distinguished by Status.
type SolveResponse struct {
	RequestID string `json:"request_id"`
	runner.Outcome
	Labeled string      `json:"labeled_tour,omitempty"`
	Events  []tsp.Event `json:"events,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSolve handles POST /v1/solve.
//
// The body is an instance in JSON (the same schema as instance files).
// JSON has no infinity, so absent edges are written as 0 unless
// zero_is_edge is set.
func (s *Server) handleSolve(c *gin.Context) {
	id := c.GetString(ctxRequestID)
	logger := s.logger.With("request_id", id)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err)
			return
		}
		s.fail(c, http.StatusBadRequest, "READ_FAILED", err)
		return
	}
	inst, err := instance.Parse(body, instance.FormatJSON)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "INVALID_INSTANCE", err)
		return
	}

	trace, _ := strconv.ParseBool(c.Query("trace"))
	var (
		out runner.Outcome
		rec *tsp.Recorder
	)
	if trace {
		if inst.N() > MaxTraceCities {
			s.fail(c, http.StatusBadRequest, "TRACE_TOO_LARGE",
				fmt.Errorf("trace is limited to %d cities, got %d", MaxTraceCities, inst.N()))
			return
		}
		rec = &tsp.Recorder{}
		out, err = s.runner.Trace(c.Request.Context(), inst, rec)
	} else {
		out, err = s.runner.Solve(c.Request.Context(), inst)
	}
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("solve failed", "err", err)
		}
		s.fail(c, status, code, err)
		return
	}

	resp := SolveResponse{RequestID: id, Outcome: out}
	if out.Found() {
		resp.Labeled = inst.FormatTour(out.Tour)
	}
	if rec != nil {
		resp.Events = rec.Events
	}
	c.JSON(http.StatusOK, resp)
}

// classify maps solver errors onto HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, tsp.ErrNegativeWeight), errors.Is(err, tsp.ErrNaNWeight):
		return http.StatusBadRequest, "INVALID_WEIGHT"
	case errors.Is(err, tsp.ErrSourceOutOfRange),
		errors.Is(err, tsp.ErrNonSquare),
		errors.Is(err, tsp.ErrEmptyMatrix),
		errors.Is(err, instance.ErrInvalid):
		return http.StatusBadRequest, "INVALID_INSTANCE"
	case errors.Is(err, tsp.ErrInvalidOption):
		return http.StatusBadRequest, "INVALID_OPTION"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELED"
	default:
		return http.StatusInternalServerError, "SOLVE_FAILED"
	}
}

func (s *Server) fail(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: c.GetString(ctxRequestID),
	})
}
