package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/homestead/internal/compat"
	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/version"
)

var pinCmd = &cobra.Command{
	Use:   "pin [version]",
	Short: "Pin compat_version in the manifest",
	Long: `Pin writes compat_version into the manifest, preserving comments and
formatting. With no argument it pins the newest registered change, which is
what the migration notice tells you to do once the steps are done.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPin,
}

func init() {
	rootCmd.AddCommand(pinCmd)
}

func runPin(cmd *cobra.Command, args []string) error {
	snap := config.CurrentSnapshot(cfg)

	var target string
	if len(args) == 1 {
		target = args[0]
		// Reject garbage before it lands in the manifest
		if _, err := version.Compare(target, target); err != nil {
			return err
		}
	} else {
		reg, err := compat.NewCatalog(snap)
		if err != nil {
			return fmt.Errorf("building change catalog: %w", err)
		}
		target, err = reg.LatestVersion()
		if err != nil {
			return err
		}
	}

	path := manifestPath()
	if err := config.SetCompatVersion(path, target); err != nil {
		return fmt.Errorf("updating manifest: %w", err)
	}

	fmt.Printf("pinned compat_version %s in %s\n", target, path)
	return nil
}
