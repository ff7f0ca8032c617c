// Package cli wires configuration, the language catalog, the translator and
// the output formatter into the gtc command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dasmlab/gtc/pkg/config"
	"github.com/dasmlab/gtc/pkg/languages"
	"github.com/dasmlab/gtc/pkg/output"
	"github.com/dasmlab/gtc/pkg/translate"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version of the gtc command.
const Version = "1.1.0"

const (
	msgEmptyInput = "Cannot translate an empty text"
	msgNetwork    = "Cannot translate now, an error occurred"
	msgParse      = "Cannot translate now, unexpected response from the translation service"
)

// App holds the process-level collaborators of the command.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsTerminal disables reading the text from stdin.
	StdinIsTerminal bool
	// StdoutIsTerminal enables colored output.
	StdoutIsTerminal bool

	Catalog *languages.Catalog
	Logger  *logrus.Logger
}

type options struct {
	auto    bool
	details bool
	list    bool
	noColor bool
}

// languageError reports a language flag value missing from the catalog.
type languageError struct {
	flag string
	code string
}

func (e *languageError) Error() string {
	return fmt.Sprintf("invalid %s language %q (use --list to see the available codes)", e.flag, e.code)
}

func (e *languageError) Unwrap() error {
	return translate.ErrValidation
}

// Run executes the command and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	catalog, err := languages.Default()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	app := &App{
		Stdin:            stdin,
		Stdout:           stdout,
		Stderr:           stderr,
		StdinIsTerminal:  isTerminal(stdin),
		StdoutIsTerminal: isTerminal(stdout),
		Catalog:          catalog,
		Logger:           newLogger(stderr),
	}

	cmd := NewRootCommand(app)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		app.report(cmd, err)
		return 1
	}
	return 0
}

// NewRootCommand builds the gtc command for app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "gtc [options] <text ...>",
		Short:   "Translate text from the command line with Google Translate",
		Version: Version,
		Example: strings.Join([]string{
			"  gtc 'I want to translate this text'",
			"  gtc -s es -t en 'Quiero traducir este texto'",
			"  gtc -s en -t es I want to translate this text",
			"  gtc -a 'Au revoir' -d",
			"  pbpaste | gtc",
		}, "\n"),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, opts, args)
		},
	}

	cmd.SetIn(app.Stdin)
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.auto, "auto", "a", false, "Auto-detect source language")
	flags.BoolVarP(&opts.details, "details", "d", false, "View details")
	flags.BoolVarP(&opts.list, "list", "l", false, "List all available languages")
	flags.StringP("source", "s", config.DefaultSource, "Source language (env "+config.EnvPrefix+"_SOURCE)")
	flags.StringP("target", "t", config.DefaultTarget, "Target language (env "+config.EnvPrefix+"_TARGET)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.Duration("timeout", config.DefaultTimeout, "Request timeout")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after the request")
	flags.String("config", "", "Path to a config file")
	flags.String("engine", config.DefaultEngine, "Translation engine")
	flags.String("endpoint", config.DefaultEndpoint, "Translation endpoint URL")
	_ = flags.MarkHidden("engine")
	_ = flags.MarkHidden("endpoint")

	return cmd
}

func (a *App) run(cmd *cobra.Command, opts *options, args []string) error {
	if opts.list {
		fmt.Fprintln(a.Stdout, output.FormatListing(a.Catalog.Listing()))
		return nil
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	setLogLevel(a.Logger, cfg.LogLevel)

	req, err := a.buildRequest(cfg, opts, args)
	if err != nil {
		return err
	}

	engine, err := translate.ParseEngineType(cfg.Engine)
	if err != nil {
		return err
	}

	metrics := translate.NewMetricsCollector(string(engine))
	translator, err := translate.NewTranslator(translate.Config{
		Engine:   engine,
		BaseURL:  cfg.Endpoint,
		Timeout:  cfg.Timeout,
		Catalog:  a.Catalog,
		Detector: translate.NewWhatlangDetector(),
		Metrics:  metrics,
		Logger:   a.Logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	result, err := translator.Translate(ctx, req)
	a.writeMetrics(metrics, cfg.MetricsFile)
	if err != nil {
		return err
	}

	formatter := output.Formatter{
		Detailed: opts.details,
		Color:    a.StdoutIsTerminal && !opts.noColor,
	}
	fmt.Fprintln(a.Stdout, formatter.Format(result))
	return nil
}

// buildRequest validates the language flags and collects the input text.
func (a *App) buildRequest(cfg *config.Config, opts *options, args []string) (translate.Request, error) {
	req := translate.Request{}

	if opts.auto || strings.EqualFold(cfg.Source, translate.AutoDetect) {
		req.SourceLang = translate.AutoDetect
	} else {
		lang, err := a.Catalog.Resolve(cfg.Source)
		if err != nil {
			return req, &languageError{flag: "source", code: cfg.Source}
		}
		req.SourceLang = lang.Code
	}

	lang, err := a.Catalog.Resolve(cfg.Target)
	if err != nil {
		return req, &languageError{flag: "target", code: cfg.Target}
	}
	req.TargetLang = lang.Code

	text, err := a.readText(args)
	if err != nil {
		return req, err
	}
	req.Text = text

	return req, nil
}

// readText joins the positional arguments, or reads stdin when there are
// none and stdin is not a terminal.
func (a *App) readText(args []string) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case !a.StdinIsTerminal && a.Stdin != nil:
		data, err := io.ReadAll(a.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	if strings.TrimSpace(text) == "" {
		return "", translate.ErrEmptyInput
	}
	return text, nil
}

func (a *App) writeMetrics(metrics *translate.MetricsCollector, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		a.Logger.WithError(err).WithFields(logrus.Fields{
			"path": path,
		}).Warn("Failed to write metrics file")
	}
}

// report prints a short message for err on stderr.
func (a *App) report(cmd *cobra.Command, err error) {
	a.Logger.WithError(err).Debug("Command failed")

	var langErr *languageError
	switch {
	case errors.As(err, &langErr):
		fmt.Fprintln(a.Stderr, langErr.Error())
	case errors.Is(err, translate.ErrEmptyInput):
		fmt.Fprintln(a.Stderr, msgEmptyInput)
		fmt.Fprint(a.Stderr, cmd.UsageString())
	case errors.Is(err, translate.ErrNetwork):
		fmt.Fprintln(a.Stderr, msgNetwork)
	case errors.Is(err, translate.ErrParse):
		fmt.Fprintln(a.Stderr, msgParse)
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	}
}

func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func setLogLevel(logger *logrus.Logger, name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using warn")
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
