package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"snep/internal/config"
	"snep/internal/diag"
	"snep/internal/diagfmt"
	"snep/internal/driver"
	"snep/internal/observ"
	"snep/internal/prof"
	"snep/internal/source"
)

// setup consolidates the configuration and prepares logging, timings and
// tracing before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	overrides, err := flagConfig(flags)
	if err != nil {
		return err
	}
	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if a.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	wd := "."
	if a.getwd != nil {
		if dir, err := a.getwd(); err == nil {
			wd = dir
		}
	}
	cfg, src, err := config.Consolidate(config.Options{
		Fs:       a.fs,
		StartDir: wd,
		File:     cfgPath,
		Lookup:   a.lookupEnv,
		Flags:    overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.LogLevel.String, a.quiet)
	if src.FilePath != "" {
		a.logger.WithField("path", src.FilePath).Debug("loaded configuration file")
	}
	a.logger.WithFields(cfg.Fields()).Debug("configuration")

	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		a.timer = observ.NewTimer()
	}

	cleanup, err := setupTracing(cmd, a.fs, a.logger)
	if err != nil {
		return err
	}
	a.cleanup = cleanup
	return a.setupProfiling(flags)
}

// setupProfiling starts the profilers named by the profiling flags.
func (a *app) setupProfiling(flags *pflag.FlagSet) error {
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.RuntimeTrace,
	} {
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !opts.Enabled() {
		return nil
	}
	session, err := prof.Start(a.fs, opts)
	if err != nil {
		return err
	}
	a.profiler = session
	return nil
}

// flagConfig turns the explicitly passed flags into a config layer.
func flagConfig(flags *pflag.FlagSet) (config.Config, error) {
	var cfg config.Config
	for _, name := range []string{"max-diagnostics", "jobs"} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return cfg, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		if name == "jobs" {
			cfg.Jobs = null.IntFrom(int64(v))
		} else {
			cfg.MaxDiagnostics = null.IntFrom(int64(v))
		}
	}

	strs := map[string]*null.String{
		"ext":       &cfg.Ext,
		"cache-dir": &cfg.CacheDir,
		"color":     &cfg.Color,
		"log-level": &cfg.LogLevel,
	}
	if flags.Lookup("out") != nil {
		strs["out"] = &cfg.OutDir
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return cfg, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = null.StringFrom(v)
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return cfg, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose && !flags.Changed("log-level") {
		cfg.LogLevel = null.StringFrom(logrus.DebugLevel.String())
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	// --quiet оставляет только предупреждения, если уровень не задан подробнее
	if quiet && lvl == logrus.InfoLevel {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// log returns the configured logger, or a stderr logger when setup did not run.
func (a *app) log() *logrus.Logger {
	if a.logger == nil {
		a.logger = newLogger(a.stderr, "info", false)
	}
	return a.logger
}

func (a *app) useColor(w io.Writer) bool {
	switch a.cfg.Color.String {
	case config.ColorOn:
		return true
	case config.ColorOff:
		return false
	default:
		return a.isTTY != nil && a.isTTY(w)
	}
}

func (a *app) driverOptions() (driver.Options, error) {
	opts := driver.Options{
		MaxDiagnostics: int(a.cfg.MaxDiagnostics.Int64),
		Jobs:           a.cfg.JobLimit(),
		Ext:            a.cfg.Ext.String,
		Logger:         a.log(),
		Timer:          a.timer,
	}
	if dir := a.cfg.CacheDir.String; dir != "" {
		if dir == config.CacheDirAuto {
			var err error
			if dir, err = driver.DefaultCacheDir("snep", a.lookupEnv); err != nil {
				return opts, fmt.Errorf("cache dir: %w", err)
			}
		}
		cache, err := driver.OpenCache(a.fs, dir)
		if err != nil {
			return opts, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

// reportDiagnostics prints bag to stderr and returns errReported when it
// holds errors.
func (a *app) reportDiagnostics(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if a.quiet {
		base := ""
		if fs != nil {
			base = fs.BaseDir()
		}
		fmt.Fprintln(a.stderr, diag.FormatGoldenDiagnostics(bag.Items(), base, false))
	} else {
		diagfmt.Pretty(a.stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     a.useColor(a.stderr),
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
		})
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(a.stderr, "... %d more diagnostics not shown\n", dropped)
	}
	if bag.HasErrors() {
		return errReported
	}
	return nil
}

// finish prints timings and releases the tracer and profilers.
func (a *app) finish() {
	if a.timer != nil && !a.quiet {
		fmt.Fprint(a.stderr, a.timer.Summary())
		a.timer.Log(a.log())
	}
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
	if err := a.profiler.Stop(); err != nil {
		a.log().WithError(err).Warn("profiling")
	}
	a.profiler = nil
}
