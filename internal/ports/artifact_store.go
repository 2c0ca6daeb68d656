package ports

import "github.com/aalvaropc/inferix/internal/domain"

// ArtifactStore persists analysis runs for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.AnalysisArtifact) (id string, err error)
	ListRuns() ([]domain.RunRef, error)
	LoadRun(id string) (domain.AnalysisArtifact, error)
}
