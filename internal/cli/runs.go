package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aalvaropc/inferix/internal/usecase/query"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored analysis runs",
	}

	c.AddCommand(runsListCmd(), runsShowCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.store.ListRuns()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no runs found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				when := ""
				if !r.StartedAt.IsZero() {
					when = r.StartedAt.Format(time.RFC3339)
				}
				fmt.Printf("- %s  %s  %s\n", r.ID, r.TaskName, when)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	var workspace string
	var queryExpr string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a stored run, optionally filtered by a JSONPath query",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			art, err := ws.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			if queryExpr != "" {
				out, err := query.Apply(art, queryExpr)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(art)
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&queryExpr, "query", "q", "", "JSONPath over the artifact, e.g. $.result.causal_effects[0].estimate")
	return cmd
}
