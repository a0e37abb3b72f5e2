// askai
//
// Send a prompt to a text-completion API and print the answer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jxucoder/askai/internal/completion"
	"github.com/jxucoder/askai/internal/config"
	"github.com/jxucoder/askai/internal/logging"
)

var version = "dev"

// errReported marks a failure that has already been printed as "Error: ...".
var errReported = errors.New("error already reported")

var (
	verbose    bool
	noProgress bool
	noColor    bool
	logLevel   string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "askai [flags] <prompt...>",
	Short: "askai - ask a completion model from the terminal",
	Long: `askai sends a prompt to an OpenAI-compatible completions API and prints the answer.
All arguments after the flags are joined with spaces to form the prompt.

  askai what is the capital of France      Ask a question
  askai --verbose=false tell me a joke     Answer without token usage
  askai models                             List available models
  askai config show                        Show current configuration`,
	Version:       version,
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runPrompt,
}

func init() {
	// Keep "completion" free for use as a prompt word.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", true, "Print token usage after the answer")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not show the progress spinner")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level on stderr (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout, e.g. 30s (overrides ASKAI_TIMEOUT)")
}

func main() {
	// Quiet until setup applies the configured level.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	out, tty := terminal(cmd.OutOrStdout())
	opts := completion.Options{
		Verbose:      verbose,
		ShowProgress: !noProgress && tty,
		Color:        colorEnabled(tty),
	}

	gen := completion.NewGenerator(completion.New(cfg), out, nil)
	if err := gen.Generate(cmd.Context(), strings.Join(args, " "), opts); err != nil {
		log.Debug().Err(err).Msg("completion failed")
		return errReported
	}
	return nil
}

// setup loads and validates configuration and starts logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_, stderrTTY := terminal(cmd.ErrOrStderr())
	if _, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, stderrTTY && !noColor); err != nil {
		return nil, err
	}
	log.Debug().Str("command", cmd.Name()).Str("model", cfg.Model).Msg("configuration loaded")
	return cfg, nil
}

// terminal wraps w for ANSI output when it is a console file and reports
// whether it is interactive.
func terminal(w io.Writer) (io.Writer, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return w, false
	}
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return colorable.NewColorable(f), tty
}

func colorEnabled(tty bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return tty
}
