// Package causal is the estimation engine behind Inferix: it builds the
// causal DAG, identifies an estimand for a treatment–outcome pair via the
// backdoor criterion, and estimates the effect with gonum.
package causal

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

// Engine implements identification and estimation over named datasets.
type Engine struct {
	cfg domain.EstimationConfig
}

func New(cfg domain.EstimationConfig) *Engine {
	return &Engine{cfg: cfg}
}

var _ ports.EffectEstimator = (*Engine)(nil)

// Identify derives a backdoor estimand for treatment -> outcome.
//
// The adjustment set is the treatment's parent set, which blocks every
// backdoor path when all parents are observed. Parents missing from the
// dataset make the estimand unidentified; depending on configuration that
// is an error or a best-effort estimand with the missing parents dropped.
func (e *Engine) Identify(ds domain.Dataset, g domain.GraphSpec, treatment, outcome string) (domain.Estimand, error) {
	d, err := buildDAG(g)
	if err != nil {
		return domain.Estimand{}, err
	}

	for _, v := range []string{treatment, outcome} {
		if !d.has(v) {
			return domain.Estimand{}, &domain.OpError{
				Op:   "causal.identify",
				Kind: domain.KindInvalidGraph,
				Err:  fmt.Errorf("variable %q is not a node in the graph", v),
			}
		}
		if !ds.HasColumn(v) {
			return domain.Estimand{}, &domain.OpError{
				Op:   "causal.identify",
				Kind: domain.KindMissingColumn,
				Err:  fmt.Errorf("variable %q has no column in the dataset", v),
			}
		}
	}

	est := domain.Estimand{
		Type:       domain.EstimandBackdoor,
		Treatment:  treatment,
		Outcome:    outcome,
		Identified: true,
	}

	if !d.hasDirectedPath(treatment, outcome) {
		est.Notes = append(est.Notes, fmt.Sprintf("no directed path from %q to %q; the causal effect is zero under the assumed graph", treatment, outcome))
	}

	var missing []string
	for _, p := range d.parents(treatment) {
		if p == outcome {
			est.Notes = append(est.Notes, fmt.Sprintf("parent %q of the treatment is the outcome; excluded from adjustment", p))
			continue
		}
		if !ds.HasColumn(p) {
			missing = append(missing, p)
			continue
		}
		est.Adjustment = append(est.Adjustment, p)
	}

	if len(missing) > 0 {
		est.Identified = false
		est.Notes = append(est.Notes, fmt.Sprintf("adjustment variables not observed in the dataset: %s", strings.Join(missing, ", ")))
		if !e.cfg.ProceedWhenUnidentified {
			return domain.Estimand{}, &domain.OpError{
				Op:   "causal.identify",
				Kind: domain.KindMissingColumn,
				Err:  fmt.Errorf("estimand for %q -> %q requires unobserved variables: %s", treatment, outcome, strings.Join(missing, ", ")),
			}
		}
	}

	est.Expression = expression(treatment, outcome, est.Adjustment)
	return est, nil
}

func expression(treatment, outcome string, adjustment []string) string {
	if len(adjustment) == 0 {
		return fmt.Sprintf("d/d[%s] E[%s]", treatment, outcome)
	}
	return fmt.Sprintf("d/d[%s] E[%s | %s]", treatment, outcome, strings.Join(adjustment, ","))
}
