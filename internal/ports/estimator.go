package ports

import (
	"context"

	"github.com/aalvaropc/inferix/internal/domain"
)

// EffectEstimator identifies and estimates the causal effect of one
// treatment–outcome pair. Identification only consults the graph and the
// observed columns; Estimate touches the numbers.
type EffectEstimator interface {
	Identify(ds domain.Dataset, graph domain.GraphSpec, treatment, outcome string) (domain.Estimand, error)
	Estimate(ctx context.Context, ds domain.Dataset, estimand domain.Estimand, method string) (domain.Effect, error)

	// Methods lists the estimation method names the engine understands.
	Methods() []string
}
