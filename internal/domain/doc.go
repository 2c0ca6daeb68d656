// Package domain contains the core domain model for Inferix.
//
// The domain is persistence- and toolkit-agnostic: it does not depend on YAML
// parsing, gonum, or the filesystem. Infra/adapters map into/from these types.
package domain
