package ports

import "github.com/aalvaropc/inferix/internal/domain"

// DatasetLoader materializes a dataset from whichever source a task carries.
type DatasetLoader interface {
	Load(src domain.DatasetSource) (domain.Dataset, error)
}
