package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"exifrename/internal"
)

// Version is set from the embedded VERSION file or at link time.
var Version = "dev"

// ErrFilesFailed marks a run that finished but could not rename every file.
var ErrFilesFailed = errors.New("some files could not be renamed")

var (
	configFlag   string
	verboseFlag  bool
	exiftoolFlag bool

	flags renameFlags
)

// renameFlags are the per-run options shared by the rename and watch commands.
type renameFlags struct {
	recursive      bool
	glob           bool
	dry            bool
	ignoreTimezone bool
	listMeta       bool
	targetTimezone string
	sourceTimezone string
	prefix         string
	suffix         string
	timeFormat     string
	modifyTime     string
	journal        string
	filterMeta     []string
}

var rootCmd = &cobra.Command{
	Use:   "exifrename [flags] path",
	Short: "Rename photos and videos after their capture time",
	Long: `Rename image and video files after the capture time stored in their metadata,
producing names that sort chronologically, e.g. IMG_20230601_143000.jpg.

path is a file, a directory or, with --glob, a glob pattern.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRename,
}

// Execute runs the command line args under ctx.
func Execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(normalizeArgs(args))
	return rootCmd.ExecuteContext(ctx)
}

// ApplyVersion copies Version onto the root command.
func ApplyVersion() {
	rootCmd.Version = Version
}

// ExitCode maps an Execute error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/exifrename/exifrename.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print debug output")
	rootCmd.PersistentFlags().BoolVar(&exiftoolFlag, "exiftool", false, "Read metadata with the exiftool binary")

	addRenameFlags(rootCmd, &flags)
	rootCmd.Flags().BoolVarP(&flags.glob, "glob", "g", false, "Treat path as a glob pattern")
	rootCmd.Flags().BoolVarP(&flags.listMeta, "list-meta", "l", false, "List the metadata of each file instead of renaming")

	ApplyVersion()
}

func addRenameFlags(cmd *cobra.Command, f *renameFlags) {
	fs := cmd.Flags()
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "Process sub-directories; with --glob, enable **")
	fs.BoolVar(&f.dry, "dry", false, "Only show what would be renamed")
	fs.BoolVar(&f.ignoreTimezone, "ignore-timezone", false, "Ignore timezone information and treat all times as UTC")
	fs.StringVar(&f.targetTimezone, "target-timezone", "", "Render names in this timezone (IANA name or offset like +02:00)")
	fs.StringVar(&f.sourceTimezone, "source-timezone", "", "Timezone of files that record no offset (default from config, Local)")
	fs.StringArrayVar(&f.filterMeta, "filter-meta", nil, "Only rename files whose tag KEY equals VALUE (--filter-meta KEY VALUE, repeatable)")
	fs.StringVar(&f.modifyTime, "modify-time", "", "Shift times by UNIT VALUE, UNIT one of weeks, days, hours, minutes, seconds")
	fs.StringVar(&f.prefix, "prefix", "", "Prefix replacing IMG_/VID_ (may be empty)")
	fs.StringVar(&f.suffix, "suffix", "", "Suffix added before the extension")
	fs.StringVar(&f.timeFormat, "time-format", "", "strftime pattern of the time part (default %Y%m%d_%H%M%S)")
	fs.StringVar(&f.journal, "journal", "", "Write a JSONL journal of the run to FILE")
}

func runRename(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd, &flags)
	if err != nil {
		return err
	}
	defer env.Close()

	path := args[0]
	paths := internal.Enumerate(path, internal.EnumerateOptions{Glob: flags.glob, Recursive: flags.recursive})

	if flags.listMeta {
		return listMeta(cmd.Context(), cmd.OutOrStdout(), env, paths)
	}

	if !flags.dry {
		lock, err := internal.AcquireRunLock(path)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	runner, err := env.runner(flags.dry, flags.journal, path)
	if err != nil {
		return err
	}

	stats, runErr := runner.Run(cmd.Context(), paths)
	return env.finish(cmd.OutOrStdout(), runner, stats, runErr)
}

func listMeta(ctx context.Context, w io.Writer, env *environment, paths iter.Seq2[string, error]) error {
	for path, err := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			env.logger.Warn("cannot read", "file", path, "error", err.Error())
			continue
		}
		in := env.planner.Inspect(path)
		if in.Metadata == nil {
			env.logger.Warn("no metadata", "file", path, "error", errorText(in.Err))
			continue
		}
		if !in.Matched {
			env.logger.Debug("filtered", "file", path)
			continue
		}
		fmt.Fprint(w, internal.RenderInspection(in))
	}
	return nil
}

// environment bundles what every command builds from config and flags.
type environment struct {
	cfg      *internal.Config
	logger   *slog.Logger
	planner  *internal.Planner
	exiftool *internal.ExiftoolReader
}

func newEnvironment(cmd *cobra.Command, f *renameFlags) (*environment, error) {
	cfg, err := internal.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	opts, err := f.namingOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	naming, err := internal.NewNamingConfig(opts)
	if err != nil {
		return nil, err
	}
	filter, err := internal.ParseFilter(f.filterMeta)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, logger: logger}
	var fallback internal.MetadataReader
	if exiftoolFlag || cfg.UseExifTool {
		cfg.UseExifTool = true
		env.exiftool, err = internal.NewExiftoolReader()
		if err != nil {
			return nil, fmt.Errorf("exiftool unavailable: %w", err)
		}
		fallback = env.exiftool
	}
	env.planner = internal.NewPlanner(internal.NewMediaReader(cfg, fallback), naming, filter)

	logger.Debug("naming configured",
		"format", naming.Format().Pattern(),
		"source_timezone", naming.SourceZone().String(),
		"shift", naming.Shift().String(),
		"filter", filter.String())
	return env, nil
}

func (e *environment) Close() {
	if e.exiftool != nil {
		e.exiftool.Close()
	}
}

// runner builds the runner, opening the journal when one is requested.
func (e *environment) runner(dry bool, journalPath, root string) (*internal.Runner, error) {
	r := &internal.Runner{
		Planner: e.planner,
		Mover:   internal.RenameMover{},
		Logger:  e.logger,
		DryRun:  dry,
		Errors:  internal.NewErrorStats(),
	}
	if journalPath == "" {
		journalPath = e.cfg.JournalPath(time.Now())
	}
	if journalPath == "" {
		return r, nil
	}
	j, err := internal.OpenJournal(journalPath)
	if err != nil {
		return nil, err
	}
	if err := j.LogRunStart(root, dry); err != nil {
		j.Close()
		return nil, err
	}
	r.Journal = j
	e.logger.Debug("journal opened", "journal", j.Path, "run_id", j.RunID)
	return r, nil
}

// finish prints the summary, closes the journal and derives the result.
func (e *environment) finish(w io.Writer, r *internal.Runner, stats internal.RunStats, runErr error) error {
	if r.Journal != nil {
		if err := r.Journal.LogRunEnd(stats); err != nil {
			e.logger.Warn("journal write failed", "error", err.Error())
		}
		r.Journal.Close()
	}

	fmt.Fprintln(w, stats.Summary())
	if r.Errors.Total > 0 && (r.Errors.Failed() || verboseFlag) {
		fmt.Fprint(w, r.Errors.GenerateReport())
	}

	if runErr != nil {
		return runErr
	}
	if stats.Failed > 0 {
		return ErrFilesFailed
	}
	return nil
}

func (f *renameFlags) namingOptions(cmd *cobra.Command, cfg *internal.Config) (internal.NamingOptions, error) {
	opts := cfg.NamingOptions()
	changed := cmd.Flags().Changed

	if changed("prefix") {
		opts.Prefix = f.prefix
		opts.OverridePrefix = true
	}
	if changed("suffix") {
		opts.Suffix = f.suffix
	}
	if changed("time-format") {
		opts.TimeFormat = f.timeFormat
	}
	if changed("source-timezone") {
		opts.SourceTimezone = f.sourceTimezone
	}
	opts.TargetTimezone = f.targetTimezone
	opts.IgnoreTimezone = f.ignoreTimezone

	if f.modifyTime != "" {
		shift, err := internal.ParseTimeShiftArg(f.modifyTime)
		if err != nil {
			return opts, err
		}
		opts.Shift = shift
	}
	return opts, nil
}

func newLogger(w io.Writer, cfg *internal.Config) *slog.Logger {
	level := internal.ParseLevel(cfg.LogLevel)
	if verboseFlag {
		level = slog.LevelDebug
	}
	return internal.NewLogger(w, level)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
