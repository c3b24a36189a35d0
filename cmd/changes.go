package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/homestead/internal/compat"
	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/version"
)

var changesSince string

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List registered breaking changes as JSON",
	Long: `Changes lists every breaking change homestead knows about, in release
order, as a JSON array on stdout. Each entry carries the version that
introduced it, whether it applies to this deployment, and the migration
instructions.

Examples:
  homestead changes
  homestead changes --since 0.0.30
  homestead changes | jq -r '.[] | select(.applies) | .version'`,
	RunE: runChanges,
}

func init() {
	changesCmd.Flags().StringVar(&changesSince, "since", "", "only list changes newer than this version")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, args []string) error {
	snap := config.CurrentSnapshot(cfg)

	reg, err := compat.NewCatalog(snap)
	if err != nil {
		return fmt.Errorf("building change catalog: %w", err)
	}

	type changeJSON struct {
		Version string `json:"version"`
		Applies bool   `json:"applies"`
		Message string `json:"message"`
	}

	out := make([]changeJSON, 0, reg.Len())
	for _, c := range reg.All() {
		if changesSince != "" {
			cmp, err := version.Compare(c.Version, changesSince)
			if err != nil {
				return fmt.Errorf("--since: %w", err)
			}
			if cmp <= 0 {
				continue
			}
		}
		out = append(out, changeJSON{
			Version: c.Version,
			Applies: c.Applies(snap),
			Message: c.Message,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
