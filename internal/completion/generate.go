package completion

import (
	"context"
	"fmt"
	"io"

	"github.com/jxucoder/askai/internal/progress"
)

// Completer is anything that can turn a prompt into a Response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Options control how Generate presents a completion.
type Options struct {
	Verbose      bool // include the usage block
	ShowProgress bool
	Color        bool
}

// IndicatorFunc builds the progress indicator for one call.
type IndicatorFunc func(w io.Writer, color bool) progress.Indicator

// DefaultIndicator draws a spinner on w.
func DefaultIndicator(w io.Writer, color bool) progress.Indicator {
	return progress.NewSpinner(w, progress.DefaultLabel, color)
}

// Generator runs a prompt through a Completer and prints the outcome.
type Generator struct {
	completer Completer
	out       io.Writer
	indicator IndicatorFunc
}

// NewGenerator prints to out. A nil indicator uses DefaultIndicator.
func NewGenerator(c Completer, out io.Writer, indicator IndicatorFunc) *Generator {
	if indicator == nil {
		indicator = DefaultIndicator
	}
	return &Generator{completer: c, out: out, indicator: indicator}
}

// Generate sends prompt and prints either the formatted answer or a single
// "Error: <message>" line. The returned error is the one already printed.
func (g *Generator) Generate(ctx context.Context, prompt string, opts Options) error {
	var ind progress.Indicator = progress.Nop{}
	if opts.ShowProgress {
		ind = g.indicator(g.out, opts.Color)
	}

	ind.Start()
	resp, err := g.completer.Complete(ctx, prompt)
	ind.Stop()

	if err == nil {
		var text string
		text, err = Format(resp, opts.Verbose, opts.Color)
		if err == nil {
			_, werr := fmt.Fprintln(g.out, text)
			return werr
		}
	}

	fmt.Fprintf(g.out, "Error: %s\n", err.Error())
	return err
}
