package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snep/internal/config"
	"snep/internal/observ"
	"snep/internal/prof"
	"snep/internal/version"
)

// errReported означает, что причина уже напечатана как диагностика.
var errReported = errors.New("errors reported")

// app carries the process environment of one CLI invocation. Tests build it
// over an in-memory file system and buffers.
type app struct {
	fs        afero.Fs
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv config.LookupFunc
	getwd     func() (string, error)
	isTTY     func(w io.Writer) bool

	// заполняются в PersistentPreRunE
	cfg      config.Config
	logger   *logrus.Logger
	timer    *observ.Timer
	quiet    bool
	cleanup  func()
	profiler *prof.Session
}

func newOSApp() *app {
	return &app{
		fs:        afero.NewOsFs(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		getwd:     os.Getwd,
		isTTY:     isTerminal,
		cfg:       config.Default(),
	}
}

// main builds the command tree and exits with status 1 when the command
// fails or reports error diagnostics.
func main() {
	os.Exit(newOSApp().run(context.Background(), os.Args[1:]))
}

func (a *app) run(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	a.finish()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		a.log().WithError(err).Error("command failed")
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "snep",
		Short:         "snep bracket-element notation toolkit",
		Long:          `snep parses, checks, reformats and renders documents written in the snep bracket-element notation`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", config.ColorAuto, "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to keep per file (0 = unlimited)")
	pf.Int("jobs", 0, "number of files parsed in parallel (0 = GOMAXPROCS)")
	pf.String("ext", ".snep", "extension of sources picked up from directories")
	pf.String("cache-dir", "", "directory of the parse cache (\"auto\" for the user cache dir, empty disables caching)")
	pf.String("log-level", "info", "log level (panic|fatal|error|warn|info|debug|trace)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("config", "", "path to snep.toml (default: search from the working directory)")
	pf.String("trace", "", "trace output file (\"-\" for stderr, \"log\" for the logger)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "text", "trace format (text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring trace mode")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval for long runs (0 = disabled)")
	pf.String("cpu-profile", "", "write a CPU profile to the file")
	pf.String("mem-profile", "", "write a heap profile to the file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to the file")

	root.AddCommand(
		newTokenizeCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newHTMLCmd(a),
		newRoundTripCmd(a),
		newVersionCmd(a),
	)
	return root
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
