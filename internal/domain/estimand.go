package domain

// EstimandType names the identification strategy behind an estimand.
type EstimandType string

const (
	// EstimandBackdoor adjusts for a set that blocks backdoor paths
	// between treatment and outcome.
	EstimandBackdoor EstimandType = "backdoor"
)

// Estimand is the identification result for one treatment–outcome pair:
// what has to be estimated, and under which adjustment, before any numbers
// are touched.
type Estimand struct {
	Type      EstimandType `json:"type"`
	Treatment string       `json:"treatment"`
	Outcome   string       `json:"outcome"`

	// Adjustment is the set of variables conditioned on during estimation.
	Adjustment []string `json:"adjustment"`

	// Expression is a human-readable rendering of the estimand.
	Expression string `json:"expression"`

	// Identified is false when the adjustment set could not be fully
	// observed and estimation proceeds on a best-effort basis.
	Identified bool `json:"identified"`

	Notes []string `json:"notes,omitempty"`
}
