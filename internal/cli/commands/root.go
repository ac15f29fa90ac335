package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "kmeta",
		Short: "Decode metadata attachments and answer annotation queries",
		Long: color.CyanString(`kmeta - metadata attachments for annotation processing

kmeta decodes the metadata attachment compiled into each class, binds
generic type references and matches the result against the reflection
tree a compiler host exposes. Queries then answer which declarations carry
a given annotation, down to properties, parameters and type aliases the
host cannot see on its own.

Reflection trees are read from YAML fixtures (see 'kmeta sample').`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.register(rootCmd)

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newQueryCommand(g))
	rootCmd.AddCommand(newDumpCommand(g))
	rootCmd.AddCommand(newReportCommand(g))
	rootCmd.AddCommand(newExportCommand(g))
	rootCmd.AddCommand(newWatchCommand(g))
	rootCmd.AddCommand(newSampleCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the kmeta version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			for _, kv := range [][2]string{
				{"kmeta version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, kv[0])
				fmt.Fprintln(out, kv[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err, nil, color.NoColor)
		return err
	}
	return nil
}
