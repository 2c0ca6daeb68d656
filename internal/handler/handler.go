// Package handler exposes the analysis engine through a three-call task
// surface: create, receive, destroy. Payloads and replies are plain
// dictionaries so the handler can sit behind any dispatch layer.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/infra/causal"
	"github.com/aalvaropc/inferix/internal/infra/dataset"
	"github.com/aalvaropc/inferix/internal/ports"
	"github.com/aalvaropc/inferix/internal/usecase"
)

const (
	statusInitialized = "initialized"
	statusDestroyed   = "destroyed"
)

// Handler processes analysis tasks delivered as dictionaries.
type Handler struct {
	log      *slog.Logger
	cfg      domain.Config
	datasets ports.DatasetLoader
	est      ports.EffectEstimator
}

type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func WithConfig(cfg domain.Config) Option {
	return func(h *Handler) { h.cfg = cfg }
}

func WithDatasetLoader(dl ports.DatasetLoader) Option {
	return func(h *Handler) {
		if dl != nil {
			h.datasets = dl
		}
	}
}

func WithEstimator(est ports.EffectEstimator) Option {
	return func(h *Handler) {
		if est != nil {
			h.est = est
		}
	}
}

func New(opts ...Option) *Handler {
	h := &Handler{
		log: slog.Default(),
		cfg: domain.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.datasets == nil {
		h.datasets = dataset.NewLoader()
	}
	if h.est == nil {
		h.est = causal.New(h.cfg.Estimation)
	}
	return h
}

// OnCreate prepares the handler for processing.
func (h *Handler) OnCreate(_ map[string]any) map[string]any {
	h.log.Info("handler created")
	return map[string]any{"status": statusInitialized}
}

// OnReceive runs one analysis task. The payload carries the dataset (inline
// JSON or a CSV path), the graph edges as a JSON edge list, the method name,
// and the treatment and outcome variable lists. On success the reply holds a
// JSON-serialized result document under "result"; any top-level failure is
// reported as a status string. Per-pair failures stay inside the result.
func (h *Handler) OnReceive(ctx context.Context, payload map[string]any) map[string]any {
	task, err := h.parseTask(payload)
	if err != nil {
		h.log.Error("task rejected", "error", err)
		return errorStatus(err)
	}

	uc := usecase.NewRunAnalysis(nil, h.datasets, h.est, nil,
		usecase.WithDefaultMethod(h.cfg.Defaults.Method))
	result, err := uc.ExecuteSpec(ctx, task)
	if err != nil {
		h.log.Error("analysis failed", "error", err)
		return errorStatus(err)
	}

	doc := resultDocument(result)
	raw, err := json.Marshal(doc)
	if err != nil {
		return errorStatus(err)
	}

	h.log.Info("analysis complete",
		"pairs", len(result.Effects),
		"failed", countFailed(result.Effects))
	return map[string]any{"result": string(raw)}
}

// OnDestroy releases the handler.
func (h *Handler) OnDestroy() map[string]any {
	h.log.Info("handler destroyed")
	return map[string]any{"status": statusDestroyed}
}

func (h *Handler) parseTask(payload map[string]any) (domain.TaskSpec, error) {
	dataString, _ := payload["dataset"].(string)

	edgesString, ok := payload["graph_edges"].(string)
	if !ok || edgesString == "" {
		return domain.TaskSpec{}, fmt.Errorf("no graph edges provided for analysis")
	}
	graph, err := parseEdges(edgesString)
	if err != nil {
		return domain.TaskSpec{}, err
	}

	treatments, err := stringList(payload["treatment"])
	if err != nil {
		return domain.TaskSpec{}, fmt.Errorf("treatment: %w", err)
	}
	outcomes, err := stringList(payload["outcome"])
	if err != nil {
		return domain.TaskSpec{}, fmt.Errorf("outcome: %w", err)
	}

	method, _ := payload["method"].(string)

	return domain.TaskSpec{
		Data:       domain.DatasetSource{Raw: dataString},
		Graph:      graph,
		Method:     method,
		Treatments: treatments,
		Outcomes:   outcomes,
	}, nil
}

func parseEdges(raw string) (domain.GraphSpec, error) {
	var pairs [][]string
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, fmt.Errorf("graph_edges is not a JSON edge list: %w", err)
	}
	graph := make(domain.GraphSpec, 0, len(pairs))
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("graph edge %v must have exactly two endpoints", p)
		}
		graph = append(graph, domain.Edge{From: p[0], To: p[1]})
	}
	return graph, nil
}

func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing variable list")
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("variable name %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of variable names, got %T", v)
	}
}

// resultDocument flattens the analysis result into the reply shape: one
// entry per pair, failed pairs carrying the error message as a string.
func resultDocument(result domain.AnalysisResult) map[string]any {
	effects := make([]map[string]any, 0, len(result.Effects))
	for _, e := range result.Effects {
		entry := map[string]any{
			"treatment": e.Treatment,
			"outcome":   e.Outcome,
		}
		if e.Failed() {
			entry["error"] = e.Error.Message
		} else {
			entry["estimate"] = *e.Estimate
			entry["method"] = e.Method
			entry["interpretation"] = e.Interpretation
		}
		effects = append(effects, entry)
	}

	return map[string]any{
		"causal_effects": effects,
		"graph_edges":    result.GraphEdges.Pairs(),
		"treatments":     result.Treatments,
		"outcomes":       result.Outcomes,
	}
}

func countFailed(effects []domain.Effect) int {
	n := 0
	for _, e := range effects {
		if e.Failed() {
			n++
		}
	}
	return n
}

func errorStatus(err error) map[string]any {
	return map[string]any{"status": fmt.Sprintf("Error %v", err)}
}
