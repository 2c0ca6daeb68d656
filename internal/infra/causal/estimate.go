package causal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aalvaropc/inferix/internal/domain"
)

// MethodLinearRegression and friends are the estimation method names
// accepted in task specs and payloads.
const (
	MethodLinearRegression  = "backdoor.linear_regression"
	MethodDifferenceInMeans = "backdoor.difference_in_means"
)

type estimateFunc func(e *Engine, ds domain.Dataset, est domain.Estimand) (float64, string, error)

var methods = map[string]estimateFunc{
	MethodLinearRegression:  estimateLinearRegression,
	MethodDifferenceInMeans: estimateDifferenceInMeans,
}

// Methods returns the known estimation method names, sorted.
func (e *Engine) Methods() []string {
	out := make([]string, 0, len(methods))
	for name := range methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Estimate computes the effect the estimand describes, using the named
// method. Unknown methods and numeric failures surface as estimation
// errors; callers record them per pair without aborting the batch.
func (e *Engine) Estimate(ctx context.Context, ds domain.Dataset, est domain.Estimand, method string) (domain.Effect, error) {
	if err := ctx.Err(); err != nil {
		return domain.Effect{}, err
	}

	fn, ok := methods[method]
	if !ok {
		return domain.Effect{}, &domain.OpError{
			Op:   "causal.estimate",
			Kind: domain.KindEstimation,
			Err:  fmt.Errorf("unknown method %q (known: %s)", method, strings.Join(e.Methods(), ", ")),
		}
	}

	value, interp, err := fn(e, ds, est)
	if err != nil {
		return domain.Effect{}, err
	}

	estCopy := est
	return domain.Effect{
		Treatment:      est.Treatment,
		Outcome:        est.Outcome,
		Estimate:       &value,
		Method:         method,
		Interpretation: interp,
		Estimand:       &estCopy,
	}, nil
}

// column fetches a column that identification already checked for; a miss
// here means the estimand and dataset went out of sync.
func column(ds domain.Dataset, name string) ([]float64, error) {
	col, ok := ds.Column(name)
	if !ok {
		return nil, &domain.OpError{
			Op:   "causal.estimate",
			Kind: domain.KindMissingColumn,
			Err:  fmt.Errorf("column %q disappeared from the dataset", name),
		}
	}
	return col, nil
}
