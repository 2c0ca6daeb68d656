package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

type ValidateTask struct {
	tasks     ports.TaskLoader
	datasets  ports.DatasetLoader
	estimator ports.EffectEstimator
}

func NewValidateTask(tl ports.TaskLoader, dl ports.DatasetLoader, est ports.EffectEstimator) *ValidateTask {
	return &ValidateTask{
		tasks:     tl,
		datasets:  dl,
		estimator: est,
	}
}

// Execute checks a task without estimating anything: the dataset loads,
// the method is known, and every treatment–outcome pair identifies.
func (uc *ValidateTask) Execute(ctx context.Context, taskPath string) error {
	task, err := uc.tasks.LoadTask(taskPath)
	if err != nil {
		return err
	}

	ds, err := uc.datasets.Load(task.Data)
	if err != nil {
		return err
	}

	if task.Method != "" && !knownMethod(uc.estimator, task.Method) {
		return &domain.OpError{
			Op:   "validate.method",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unknown method %q", task.Method),
		}
	}

	for _, treatment := range task.Treatments {
		for _, outcome := range task.Outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}

			if _, err := uc.estimator.Identify(ds, task.Graph, treatment, outcome); err != nil {
				return fmt.Errorf("pair %s -> %s: %w", treatment, outcome, err)
			}
		}
	}

	return nil
}

func knownMethod(est ports.EffectEstimator, method string) bool {
	for _, m := range est.Methods() {
		if m == method {
			return true
		}
	}
	return false
}
