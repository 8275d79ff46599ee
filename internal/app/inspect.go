package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/logsweep/internal/archive"
	"github.com/blackwell-systems/logsweep/internal/output"
)

var (
	inspectExtract string

	inspectCmd = &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the members of an archive",
		Long: `List every member of an archive with its size and modification
time, or extract the members with --extract.

Member paths are relative to the source directory the archive was
created from, so extraction reproduces the original layout under the
target directory.`,
		Example: `  # List members
  logsweep inspect /var/log/myapp/archives/logs_archive_20250114_031500.tar.gz

  # Extract into a directory
  logsweep inspect logs_archive_20250114_031500.tar.gz --extract /tmp/restored`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringVar(&inspectExtract, "extract", "", "extract members into this directory instead of listing")

	// Register with root command
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	members, err := archive.List(args[0])
	if err != nil {
		return err
	}

	if inspectExtract != "" {
		if err := archive.Extract(args[0], inspectExtract); err != nil {
			return err
		}
		fmt.Printf("✓ Extracted %d members to %s\n", len(members), inspectExtract)
		return nil
	}

	fmt.Print(output.RenderMemberTable(members))
	return nil
}
