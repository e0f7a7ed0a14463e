package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/engine"
	"github.com/v1kko/entangled/internal/logging"
	"github.com/v1kko/entangled/internal/txn"
	"github.com/v1kko/entangled/internal/vfs"
)

var tangleCmd = &cobra.Command{
	Use:   "tangle",
	Short: "Generate source files from Markdown code blocks",
	RunE:  runTangle,
}

func init() {
	rootCmd.AddCommand(tangleCmd)
	tangleCmd.Flags().Bool("force", false, "overwrite targets that were edited out of band")
	tangleCmd.Flags().Bool("show", false, "print what would change without writing anything")
}

func runTangle(cmd *cobra.Command, args []string) error {
	mode, err := modeFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, err := buildContext(cmd)
	if err != nil {
		return err
	}

	result, err := ctx.Tangle(mode)
	if err != nil {
		return err
	}

	printResult(mode, result)
	return nil
}

func modeFromFlags(cmd *cobra.Command) (txn.Mode, error) {
	force, _ := cmd.Flags().GetBool("force")
	show, _ := cmd.Flags().GetBool("show")
	switch {
	case show && force:
		return 0, fmt.Errorf("--show and --force are mutually exclusive")
	case show:
		return txn.SHOW, nil
	case force:
		return txn.FORCE, nil
	default:
		return txn.FAIL, nil
	}
}

func buildContext(cmd *cobra.Command) (*engine.Context, error) {
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return engine.New(vfs.NewOS(), cfg, logging.New(debug)), nil
}

// printResult renders a Result the way a terminal session expects: plain
// text piped to a file or another process, human-readable byte counts
// (dustin/go-humanize) when stdout is an interactive tty (mattn/go-isatty).
// Under SHOW mode nothing was written, so sizes describe what tangling
// would produce, not what's on disk.
func printResult(mode txn.Mode, result *engine.Result) {
	for _, notice := range result.Notices {
		fmt.Println(notice)
	}

	verb := "wrote"
	if mode == txn.SHOW {
		verb = "would write"
	}

	tty := isatty.IsTerminal(os.Stdout.Fd())
	for _, path := range result.Wrote {
		if tty {
			if size, ok := result.Sizes[path]; ok {
				fmt.Printf("%s %s (%s)\n", verb, path, humanize.Bytes(uint64(size)))
				continue
			}
		}
		fmt.Printf("%s %s\n", verb, path)
	}
}
