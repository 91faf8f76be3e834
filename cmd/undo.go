package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"exifrename/internal"
)

var (
	undoDryFlag bool
	undoAllFlag bool
	undoRunFlag string
)

var undoCmd = &cobra.Command{
	Use:   "undo [flags] journal",
	Short: "Restore the original names recorded in a journal",
	Long: `Move the files renamed by the last run recorded in journal back to their
original names. Files that were changed, moved again or whose original name is
taken are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configFlag)
		if err != nil {
			return err
		}
		logger := newLogger(cmd.ErrOrStderr(), cfg)

		events, err := internal.ReadJournal(args[0])
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}

		runID := undoRunFlag
		if runID == "" && !undoAllFlag {
			runID = internal.LastRunID(events)
		}
		logger.Debug("undoing journal", "journal", args[0], "run_id", runID)

		stats := internal.Undo(events, runID, internal.RenameMover{}, undoDryFlag, logger)
		fmt.Fprintln(cmd.OutOrStdout(), stats.String())
		if stats.Failed > 0 {
			return ErrFilesFailed
		}
		return nil
	},
}

func init() {
	undoCmd.Flags().BoolVar(&undoDryFlag, "dry", false, "Only show what would be restored")
	undoCmd.Flags().BoolVar(&undoAllFlag, "all", false, "Undo every run in the journal, not only the last")
	undoCmd.Flags().StringVar(&undoRunFlag, "run", "", "Undo the run with this ID")

	rootCmd.AddCommand(undoCmd)
}
