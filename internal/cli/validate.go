package cli

import (
	"fmt"

	"github.com/aalvaropc/inferix/internal/usecase"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var workspace string
	var task string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a task without estimating anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			taskPath, err := resolveTaskPath(ws, task)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateTask(ws.tasks, ws.datasets, ws.estimator)
			if err := uc.Execute(cmd.Context(), taskPath); err != nil {
				return err
			}

			fmt.Println("OK")
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&task, "task", "t", "", "Task name or path (required)")

	_ = c.MarkFlagRequired("task")
	return c
}
