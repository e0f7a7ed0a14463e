package cmd

import (
	"github.com/spf13/cobra"

	"github.com/v1kko/entangled/internal/txn"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Stitch out-of-band edits back then re-tangle every target",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("force", false, "overwrite targets that were edited out of band")
}

func runSync(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	mode := txn.FAIL
	if force {
		mode = txn.FORCE
	}

	ctx, err := buildContext(cmd)
	if err != nil {
		return err
	}

	result, err := ctx.Sync(mode)
	if err != nil {
		return err
	}

	printResult(mode, result)
	return nil
}
