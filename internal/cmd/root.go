package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "entangled",
	Short: "Tangle and stitch literate Markdown",
	Long:  `Entangled extracts source files from fenced code blocks in Markdown (tangle) and folds edits made to those files back into the Markdown (stitch).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			return os.Setenv("ENTANGLED_CONFIG", path)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: entangled.toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
}
