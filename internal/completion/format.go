package completion

import (
	"fmt"
	"strings"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// Text returns the first choice's text.
func (r *Response) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	return r.Choices[0].Text, nil
}

// UsageLine renders the token counters on one line.
func (u Usage) UsageLine() string {
	return fmt.Sprintf("Prompt Tokens: %d, Completion Tokens: %d, Total Tokens: %d",
		u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// Format renders the answer, plus the usage block when verbose and the
// provider reported usage. Color only adds ANSI escapes.
func Format(resp *Response, verbose, color bool) (string, error) {
	text, err := resp.Text()
	if err != nil {
		return "", err
	}
	if color {
		text = paint(ansiGreen, text)
	}

	var b strings.Builder
	b.WriteString("Answer:\n")
	b.WriteString(text)

	if verbose && resp.Usage != nil {
		usage := resp.Usage.UsageLine()
		if color {
			usage = paint(ansiYellow, usage)
		}
		b.WriteString("\n\nUsage Information:\n")
		b.WriteString(usage)
	}
	return b.String(), nil
}

// paint colors each line separately so terminals that reset attributes at a
// newline still show the color.
func paint(code, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = code + line + ansiReset
		}
	}
	return strings.Join(lines, "\n")
}
