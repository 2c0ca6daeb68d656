package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/usecase"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var workspace string
	var task string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Run an analysis task from an Inferix workspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			taskPath, err := resolveTaskPath(ws, task)
			if err != nil {
				return err
			}

			var store = ws.store
			if noSave {
				store = nil
			}

			uc := usecase.NewRunAnalysis(ws.tasks, ws.datasets, ws.estimator, store,
				usecase.WithDefaultMethod(ws.cfg.Defaults.Method))

			result, runID, err := uc.Execute(cmd.Context(), taskPath)
			if err != nil {
				// Print whatever was computed before failing, then surface the error.
				_ = printRun(os.Stdout, result, runID, format)
				return err
			}

			if err := printRun(os.Stdout, result, runID, format); err != nil {
				return err
			}

			fails := countFailures(result)
			if fails > 0 {
				return fmt.Errorf("run finished with %d failed pair(s)", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&task, "task", "t", "", "Task name or path (required)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save run artifact under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("task")
	return c
}

func printRun(w io.Writer, result domain.AnalysisResult, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id": runID,
			"run":    result,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRun(w, result, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, result domain.AnalysisResult, runID string) {
	total := result.EndedAt.Sub(result.StartedAt)
	if result.StartedAt.IsZero() || result.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Task:     %s\n", result.TaskName)
	fmt.Fprintf(w, "Method:   %s\n", result.Method)
	fmt.Fprintf(w, "Started:  %s\n", result.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Ended:    %s\n", result.EndedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, e := range result.Effects {
		status := "OK"
		if e.Failed() {
			status = "FAIL"
		}

		fmt.Fprintf(w, "- [%s] %s -> %s\n", status, e.Treatment, e.Outcome)

		if e.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", e.Error.Message, e.Error.Kind)
			continue
		}

		fmt.Fprintf(w, "  estimate: %g\n", *e.Estimate)
		if e.Estimand != nil {
			if len(e.Estimand.Adjustment) > 0 {
				fmt.Fprintf(w, "  adjusted for: %s\n", strings.Join(e.Estimand.Adjustment, ", "))
			}
			for _, note := range e.Estimand.Notes {
				fmt.Fprintf(w, "  note: %s\n", note)
			}
		}
		if e.Interpretation != "" {
			fmt.Fprintf(w, "  %s\n", e.Interpretation)
		}
	}
	fmt.Fprintln(w)
}

func countFailures(result domain.AnalysisResult) int {
	n := 0
	for _, e := range result.Effects {
		if e.Failed() {
			n++
		}
	}
	return n
}
