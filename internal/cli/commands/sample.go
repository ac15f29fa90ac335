package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/kmeta/internal/host"
	"github.com/conduit-lang/kmeta/internal/sample"
)

func newSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [file]",
		Short: "Write the sample module as a fixture",
		Long: `Write the built-in sample module as a YAML reflection-tree fixture. Every
class element carries its encoded metadata attachment, so the file can be
edited and fed back with --fixture.`,
		Example: `  kmeta sample tree.yaml
  kmeta query -f tree.yaml summer.practice.kapt.SomeAnno`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := sample.Module()
			if err != nil {
				return err
			}
			data, err := host.MarshalTree(roots)
			if err != nil {
				return fmt.Errorf("rendering fixture: %w", err)
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
