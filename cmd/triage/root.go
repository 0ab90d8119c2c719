package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hupe1980/agenttriage"
	"github.com/hupe1980/agenttriage/config"
	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/internal/tracer"
	"github.com/hupe1980/agenttriage/logging"
	"github.com/hupe1980/agenttriage/session"
)

const promptText = "\nWhat's the support problem you need to resolve?: "

// serviceRunner opens a connection to the agent service for the duration of
// fn and releases it afterwards.
type serviceRunner func(ctx context.Context, cfg *config.Config, logger logging.Logger, fn func(ctx context.Context, svc core.AgentService) error) error

type app struct {
	withService serviceRunner
	// executable locates the running binary for the default instruction dir.
	executable func() (string, error)
}

func defaultApp() app {
	return app{
		withService: func(ctx context.Context, cfg *config.Config, logger logging.Logger, fn func(ctx context.Context, svc core.AgentService) error) error {
			return session.With(ctx, cfg, func(ctx context.Context, s *session.Session) error {
				return fn(ctx, s.Service())
			}, func(o *session.Options) {
				o.Logger = logger
			})
		},
		executable: os.Executable,
	}
}

type rootFlags struct {
	dir       string
	envFile   string
	prompt    string
	logLevel  string
	logFormat string
	trace     bool
}

func newRootCmd(a app) *cobra.Command {
	var flags rootFlags
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage a support ticket with a team of connected agents",
		Long: `triage provisions a priority, a team and an effort agent, connects them as
tools to a triage coordinator and asks the coordinator to classify the
support problem you describe. The conversation is printed and every agent
is deleted again before the command exits.

Connection parameters come from the environment or a dotenv file:
  PROJECT_ENDPOINT        agent service project endpoint (required)
  MODEL_DEPLOYMENT_NAME   model deployment used by all agents (required)
  AGENTS_API_VERSION      api-version query parameter
  RUN_POLL_INTERVAL       delay between run status polls`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, flags, v)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dir, "dir", "", "directory holding the instruction files (default: executable directory, then working directory)")
	f.StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "dotenv file, relative to --dir")
	f.StringVarP(&flags.prompt, "prompt", "p", "", "support problem to triage instead of asking interactively")
	f.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")
	f.BoolVar(&flags.trace, "trace", false, "write OpenTelemetry spans to stderr")
	f.String("api-version", config.DefaultAPIVersion, "agent service API version")
	f.Duration("poll-interval", config.DefaultRunPollInterval, "delay between run status polls")

	_ = v.BindPFlag(config.KeyAPIVersion, f.Lookup("api-version"))
	_ = v.BindPFlag(config.KeyRunPollInterval, f.Lookup("poll-interval"))

	return cmd
}

func (a app) run(cmd *cobra.Command, flags rootFlags, v *viper.Viper) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	level, err := logging.ParseLevel(flags.logLevel)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    flags.logFormat,
		Output:    cmd.ErrOrStderr(),
		Component: "triage",
	})

	shutdown, err := tracer.Setup(ctx, tracer.Config{
		Enabled:  flags.trace,
		Exporter: tracer.ExporterStdout,
		Output:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	tty := isTerminal(out)
	if tty {
		fmt.Fprint(out, "\033[H\033[2J")
	}

	dir := flags.dir
	if dir == "" {
		if dir, err = a.defaultDir(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(dir, func(o *config.Options) {
		o.EnvFile = flags.envFile
		o.Viper = v
	})
	if err != nil {
		return err
	}
	logger.Debug("Configuration loaded", "dir", dir, "model", cfg.ModelDeployment)

	ask := agenttriage.StaticPrompt(flags.prompt)
	if !cmd.Flags().Changed("prompt") {
		ask = promptReader(cmd.InOrStdin(), out)
	}

	return a.withService(ctx, cfg, logger, func(ctx context.Context, svc core.AgentService) error {
		p := agenttriage.New(svc, cfg, func(o *agenttriage.Options) {
			o.Out = out
			o.Logger = logger
			o.Color = tty
		})
		report, err := p.Run(ctx, ask)
		if err == nil && tty {
			color.New(color.Faint).Fprintf(out, "Triage finished: %d agents, run %s (%s)\n", len(report.Agents), report.Run.ID, report.Run.Status)
		}
		return err
	})
}

// defaultDir prefers the executable's directory when it holds the triage
// instructions and falls back to the working directory.
func (a app) defaultDir() (string, error) {
	if a.executable != nil {
		if exe, err := a.executable(); err == nil {
			dir := filepath.Dir(exe)
			if _, err := os.Stat(filepath.Join(dir, config.TriageInstructionsFile)); err == nil {
				return dir, nil
			}
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return dir, nil
}

// promptReader asks for the ticket on out and reads one line from in.
func promptReader(in io.Reader, out io.Writer) agenttriage.PromptFunc {
	return func(context.Context) (string, error) {
		fmt.Fprint(out, promptText)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
