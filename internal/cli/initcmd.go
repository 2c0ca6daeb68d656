package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/inferix/internal/infra/fsworkspace"
	"github.com/aalvaropc/inferix/internal/usecase"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold an Inferix workspace with a sample task and dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return err
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(abs, force); err != nil {
				return err
			}

			fmt.Printf("Workspace initialized at %s\n", abs)
			fmt.Println("Try: inferix run -t engine-temps")
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite scaffold files that already exist")
	return c
}
