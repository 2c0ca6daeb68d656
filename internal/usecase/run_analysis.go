package usecase

import (
	"context"
	"time"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

type RunAnalysis struct {
	tasks     ports.TaskLoader
	datasets  ports.DatasetLoader
	estimator ports.EffectEstimator
	store     ports.ArtifactStore

	defaultMethod string
}

type RunOption func(*RunAnalysis)

// WithDefaultMethod sets the method used when a task does not name one.
func WithDefaultMethod(method string) RunOption {
	return func(uc *RunAnalysis) {
		if method != "" {
			uc.defaultMethod = method
		}
	}
}

func NewRunAnalysis(tl ports.TaskLoader, dl ports.DatasetLoader, est ports.EffectEstimator, store ports.ArtifactStore, opts ...RunOption) *RunAnalysis {
	uc := &RunAnalysis{
		tasks:         tl,
		datasets:      dl,
		estimator:     est,
		store:         store,
		defaultMethod: domain.DefaultConfig().Defaults.Method,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute loads the task at taskPath, runs it, and persists an artifact
// unless the store is nil. The returned id is the stored artifact's id.
func (uc *RunAnalysis) Execute(ctx context.Context, taskPath string) (domain.AnalysisResult, string, error) {
	task, err := uc.tasks.LoadTask(taskPath)
	if err != nil {
		return domain.AnalysisResult{}, "", err
	}

	result, err := uc.ExecuteSpec(ctx, task)
	if err != nil {
		return result, "", err
	}

	if uc.store == nil {
		return result, "", nil
	}

	id, err := uc.store.SaveRun(domain.AnalysisArtifact{
		TaskPath:   taskPath,
		StartedAt:  result.StartedAt,
		FinishedAt: result.EndedAt,
		Result:     result,
	})
	if err != nil {
		return result, "", err
	}
	return result, id, nil
}

// ExecuteSpec runs an already-loaded task. Per-pair identification and
// estimation failures are recorded inline on the effect and never abort
// the batch; only input loading and context cancellation do.
func (uc *RunAnalysis) ExecuteSpec(ctx context.Context, task domain.TaskSpec) (domain.AnalysisResult, error) {
	ds, err := uc.datasets.Load(task.Data)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	method := task.Method
	if method == "" {
		method = uc.defaultMethod
	}

	result := domain.AnalysisResult{
		TaskName:   task.Name,
		Method:     method,
		StartedAt:  time.Now(),
		Effects:    make([]domain.Effect, 0, len(task.Treatments)*len(task.Outcomes)),
		GraphEdges: task.Graph,
		Treatments: task.Treatments,
		Outcomes:   task.Outcomes,
	}

	for _, treatment := range task.Treatments {
		for _, outcome := range task.Outcomes {
			if err := ctx.Err(); err != nil {
				result.EndedAt = time.Now()
				return result, err
			}

			estimand, idErr := uc.estimator.Identify(ds, task.Graph, treatment, outcome)
			if idErr != nil {
				result.Effects = append(result.Effects, domain.Effect{
					Treatment: treatment,
					Outcome:   outcome,
					Method:    method,
					Error:     domain.NewRunError(idErr),
				})
				continue
			}

			effect, estErr := uc.estimator.Estimate(ctx, ds, estimand, method)
			if estErr != nil {
				result.Effects = append(result.Effects, domain.Effect{
					Treatment: treatment,
					Outcome:   outcome,
					Method:    method,
					Estimand:  &estimand,
					Error:     domain.NewRunError(estErr),
				})
				continue
			}

			result.Effects = append(result.Effects, effect)
		}
	}

	result.EndedAt = time.Now()
	return result, nil
}
