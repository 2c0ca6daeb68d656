package ports

import "github.com/aalvaropc/inferix/internal/domain"

// TaskLoader loads analysis tasks from a source (e.g., filesystem).
type TaskLoader interface {
	LoadTask(path string) (domain.TaskSpec, error)
	ListTasks(root string) ([]domain.TaskRef, error)
}
