package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func tasksCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tasks",
		Short: "Manage analysis tasks in a workspace",
	}

	c.AddCommand(tasksListCmd())
	return c
}

func tasksListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.tasks.ListTasks(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no tasks found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
