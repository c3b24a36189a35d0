package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/homestead/internal/compat"
	"github.com/zjrosen/homestead/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the compatibility gate without evaluating",
	Long: `Check runs the compatibility gate against the current manifest and
reports the outcome without building a plan. Useful before upgrading or in
scripts that want the gate verdict alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := runGate()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("manifest requires migration")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runGate checks the loaded manifest against the builtin catalog and prints
// the outcome. The returned bool is the gate verdict; the error covers only
// defects (malformed pin, broken catalog), never a blocked manifest.
func runGate() (bool, error) {
	snap := config.CurrentSnapshot(cfg)

	reg, err := compat.NewCatalog(snap)
	if err != nil {
		return false, fmt.Errorf("building change catalog: %w", err)
	}

	res, err := compat.Check(snap.CompatVersion(), reg, snap)
	if err != nil {
		return false, err
	}
	if !res.OK {
		fmt.Fprintln(os.Stderr, renderNotice(res))
		return false, nil
	}

	newest, err := reg.LatestVersion()
	if err != nil {
		return false, err
	}
	if snap.CompatVersion() == "" {
		fmt.Printf("no compat_version pinned; latest change is %s (consider 'homestead pin %s')\n", newest, newest)
	} else {
		fmt.Printf("manifest compatible (pinned %s, latest change %s)\n", snap.CompatVersion(), newest)
	}
	return true, nil
}
