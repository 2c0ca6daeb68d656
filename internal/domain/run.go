package domain

import (
	"context"
	"errors"
	"time"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown        RunErrorKind = "unknown"
	RunErrorGraph          RunErrorKind = "graph"
	RunErrorIdentification RunErrorKind = "identification"
	RunErrorEstimation     RunErrorKind = "estimation"
	RunErrorData           RunErrorKind = "data"
	RunErrorCanceled       RunErrorKind = "canceled"
)

// RunError represents a structured error recorded inline on an effect.
type RunError struct {
	Kind    RunErrorKind `json:"kind"`
	Message string       `json:"message"`
}

// NewRunError converts an error into a classified RunError.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{
		Kind:    ClassifyRunError(err),
		Message: err.Error(),
	}
}

// ClassifyRunError maps an error into a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return RunErrorUnknown
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return RunErrorCanceled
	}

	var oe *OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case KindInvalidGraph:
			return RunErrorGraph
		case KindInvalidData:
			return RunErrorData
		case KindMissingColumn:
			return RunErrorIdentification
		case KindEstimation:
			return RunErrorEstimation
		}
	}

	return RunErrorUnknown
}

// Effect is the outcome of one treatment–outcome pair: either an estimate
// with its interpretation, or an inline error. Failed pairs never abort the
// surrounding batch.
type Effect struct {
	Treatment string `json:"treatment"`
	Outcome   string `json:"outcome"`

	Estimate       *float64 `json:"estimate,omitempty"`
	Method         string   `json:"method,omitempty"`
	Interpretation string   `json:"interpretation,omitempty"`

	Estimand *Estimand `json:"estimand,omitempty"`
	Error    *RunError `json:"error,omitempty"`
}

// Failed reports whether the pair produced no estimate.
func (e Effect) Failed() bool {
	return e.Error != nil
}

// AnalysisResult represents the result of running one analysis task.
type AnalysisResult struct {
	TaskName string `json:"task_name"`
	Method   string `json:"method"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Effects []Effect `json:"causal_effects"`

	// Echoed inputs, part of the result document shape.
	GraphEdges GraphSpec `json:"graph_edges"`
	Treatments []string  `json:"treatments"`
	Outcomes   []string  `json:"outcomes"`
}

// AnalysisArtifact represents a persisted analysis run for reproducibility.
type AnalysisArtifact struct {
	ID string `json:"id"`

	TaskPath string `json:"task_path"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Result AnalysisResult `json:"result"`
}

// RunRef is a lightweight reference to a stored analysis artifact.
type RunRef struct {
	ID        string
	Path      string
	TaskName  string
	StartedAt time.Time
}
