package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v1kko/entangled/internal/txn"
)

var stitchCmd = &cobra.Command{
	Use:   "stitch",
	Short: "Fold edits to generated files back into their Markdown sources",
	RunE:  runStitch,
}

func init() {
	rootCmd.AddCommand(stitchCmd)
	stitchCmd.Flags().Bool("force", false, "overwrite Markdown sources that were edited out of band")
}

func runStitch(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	mode := txn.FAIL
	if force {
		mode = txn.FORCE
	}

	ctx, err := buildContext(cmd)
	if err != nil {
		return err
	}

	result, err := ctx.Stitch(mode)
	if err != nil {
		return err
	}

	for _, notice := range result.Notices {
		fmt.Println(notice)
	}
	for _, path := range result.Wrote {
		fmt.Printf("updated %s\n", path)
	}
	return nil
}
