package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zephyrtronium/shunt"
)

var tracer = otel.Tracer("github.com/zephyrtronium/shunt/internal/server")

// Result is the JSON object answering an evaluation request.
type Result struct {
	// Status is "success" or "failure".
	Status string `json:"status"`
	// Value is the result of a successful evaluation.
	Value *float64 `json:"value,omitempty"`
	// Message describes a failure.
	Message string `json:"message,omitempty"`
	// CharIndex is the 0-based index of the character that caused a
	// failure, if there is one.
	CharIndex *int `json:"charIndex,omitempty"`
}

func success(x float64) Result {
	return Result{Status: "success", Value: &x}
}

func failure(msg string) Result {
	return Result{Status: "failure", Message: msg}
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	expr := r.FormValue("expression")
	if strings.TrimSpace(expr) == "" {
		s.metrics.RecordRejected()
		writeJSON(w, http.StatusOK, failure("no expression given"))
		return
	}
	p := shunt.NewParser(shunt.MaxLen(s.cfg.MaxLength), shunt.Logger(*s.reqLogger(r)))
	writeJSON(w, http.StatusOK, s.evaluate(r.Context(), p, expr))
}

// evaluate runs one expression through p and records the outcome.
func (s *Server) evaluate(ctx context.Context, p *shunt.Parser, expr string) Result {
	_, span := tracer.Start(ctx, "evaluate", trace.WithAttributes(
		attribute.Int("expression.length", len(expr)),
	))
	defer span.End()

	x, err := p.Parse(expr)
	if err != nil {
		var e *shunt.Error
		if !errors.As(err, &e) {
			// Parse only returns *shunt.Error.
			panic(err)
		}
		res := failure(e.Msg)
		if e.HasPos() {
			col := e.Col
			res.CharIndex = &col
			span.SetAttributes(attribute.Int("error.char_index", col))
		}
		span.SetAttributes(
			attribute.String("result.status", res.Status),
			attribute.String("error.kind", e.Kind.String()),
		)
		span.SetStatus(codes.Error, e.Msg)
		s.metrics.RecordFailure(e.Kind.String())
		return res
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		// JSON has no representation for these.
		span.SetAttributes(attribute.String("result.status", "failure"))
		span.SetStatus(codes.Error, "non-finite result")
		s.metrics.RecordFailure("range")
		return failure("result is not a finite number")
	}
	span.SetAttributes(attribute.String("result.status", "success"), attribute.Float64("result.value", x))
	s.metrics.RecordSuccess()
	return success(x)
}
