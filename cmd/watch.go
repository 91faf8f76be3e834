package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"exifrename/internal"
)

var (
	watchFlags   renameFlags
	existingFlag bool
	settleFlag   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] dir",
	Short: "Rename media files as they arrive in a directory",
	Long: `Watch dir and rename every image or video written into it once the file has
been quiet for the settle delay (watch_settle, default 2s). Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addRenameFlags(watchCmd, &watchFlags)
	watchCmd.Flags().BoolVar(&existingFlag, "existing", false, "Rename the files already in dir before watching")
	watchCmd.Flags().DurationVar(&settleFlag, "settle", 0, "Quiet time before a new file is renamed (e.g. 5s)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("folder does not exist or is not a directory: %s", dir)
	}

	env, err := newEnvironment(cmd, &watchFlags)
	if err != nil {
		return err
	}
	defer env.Close()

	settle := env.cfg.WatchSettle
	if settleFlag > 0 {
		settle = settleFlag
	}

	if !watchFlags.dry {
		lock, err := internal.AcquireRunLock(dir)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	runner, err := env.runner(watchFlags.dry, watchFlags.journal, dir)
	if err != nil {
		return err
	}

	// the existing pass and the watch share one registry
	ctx := cmd.Context()
	reg := internal.NewNameRegistry(nil)
	stats := internal.NewRunStats()
	if existingFlag {
		stats, err = runner.RunWith(ctx, internal.Enumerate(dir, internal.EnumerateOptions{Recursive: watchFlags.recursive}), reg)
		if err != nil {
			return env.finish(cmd.OutOrStdout(), runner, stats, err)
		}
	}

	w, err := internal.NewWatcher(dir, watchFlags.recursive, env.cfg.Classifier(), settle, env.logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer w.Close()

	env.logger.Info("watching " + dir + " (Ctrl-C to stop)")
	watched, err := runner.Watch(ctx, w, reg)
	stats = mergeStats(stats, watched)

	// Ctrl-C is the normal way to end a watch.
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return env.finish(cmd.OutOrStdout(), runner, stats, err)
}

func mergeStats(a, b internal.RunStats) internal.RunStats {
	out := internal.NewRunStats()
	out.Processed = a.Processed + b.Processed
	out.Renamed = a.Renamed + b.Renamed
	out.Planned = a.Planned + b.Planned
	out.Unchanged = a.Unchanged + b.Unchanged
	out.Failed = a.Failed + b.Failed
	for r, n := range a.Skipped {
		out.Skipped[r] += n
	}
	for r, n := range b.Skipped {
		out.Skipped[r] += n
	}
	return out
}
