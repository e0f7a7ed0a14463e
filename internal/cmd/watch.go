package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/v1kko/entangled/internal/engine"
	"github.com/v1kko/entangled/internal/txn"
	"github.com/v1kko/entangled/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync on every filesystem change until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("force", false, "overwrite targets that were edited out of band")
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "minimum time between syncs")
}

func runWatch(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	interval, _ := cmd.Flags().GetDuration("debounce")
	mode := txn.FAIL
	if force {
		mode = txn.FORCE
	}

	ctx, err := buildContext(cmd)
	if err != nil {
		return err
	}

	dirs, err := watchDirs(ctx)
	if err != nil {
		return err
	}

	sync := func() error {
		result, err := ctx.Sync(mode)
		if err != nil {
			return err
		}
		printResult(mode, result)
		return nil
	}

	w, err := watch.New(dirs, interval, sync, ctx.Log)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nstopping watch")
		cancel()
	}()

	fmt.Printf("watching %d director%s, press Ctrl+C to stop\n", len(dirs), plural(len(dirs)))
	return w.Run(runCtx)
}

func watchDirs(ctx *engine.Context) ([]string, error) {
	loaded, err := ctx.LoadDocuments()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var dirs []string
	add := func(path string) {
		dir := filepath.Dir(path)
		if dir == "" {
			dir = "."
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for path := range loaded.Docs {
		add(path)
	}
	for _, target := range loaded.Refs.Targets() {
		add(target.Path)
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	return dirs, nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
