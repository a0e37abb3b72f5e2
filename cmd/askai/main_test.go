package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

// execute runs the root command with args against a fresh environment and
// returns what it printed to stdout.
func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "API_ENDPOINT", "OPENAI_BASE_URL", "MAX_TOKENS", "ASKAI_TIMEOUT", "NO_COLOR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ASKAI_HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "disabled")
	for k, v := range env {
		t.Setenv(k, v)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores flag variables, which outlive a single Execute.
func resetFlags() {
	verbose, noProgress, noColor, logLevel, timeout = true, false, false, "", 0
	for _, name := range []string{"log-level", "timeout", "no-color"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}
	for _, name := range []string{"verbose", "no-progress"} {
		rootCmd.Flags().Lookup(name).Changed = false
	}
}

func TestPrompt_PrintsAnswerAndUsage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"choices":[{"text":"\nA gopher."}],"usage":{"prompt_tokens":3,"completion_tokens":3,"total_tokens":6}}`)
	}))
	defer srv.Close()

	out, err := execute(t, map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"API_ENDPOINT":   srv.URL,
		"MAX_TOKENS":     "20",
	}, "--verbose=true", "--no-progress", "what", "is", "go?")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := "Answer:\n\nA gopher.\n\nUsage Information:\nPrompt Tokens: 3, Completion Tokens: 3, Total Tokens: 6\n"
	if out != want {
		t.Errorf("output =\n%q\nwant\n%q", out, want)
	}
	if got["prompt"] != "what is go?" {
		t.Errorf("prompt = %v, want %q", got["prompt"], "what is go?")
	}
	if got["max_tokens"] != float64(20) {
		t.Errorf("max_tokens = %v, want 20", got["max_tokens"])
	}
}

func TestPrompt_NotVerbose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"text":"yes"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer srv.Close()

	out, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-test", "API_ENDPOINT": srv.URL},
		"--verbose=false", "ok?")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "Answer:\nyes\n" {
		t.Errorf("output = %q", out)
	}
}

func TestPrompt_APIErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer srv.Close()

	out, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-bad", "API_ENDPOINT": srv.URL},
		"--verbose=true", "hello")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if out != "Error: Incorrect API key provided\n" {
		t.Errorf("output = %q", out)
	}
}

func TestPrompt_TimeoutFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		io.WriteString(w, `{"choices":[{"text":"too late"}]}`)
	}))
	defer srv.Close()

	out, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-test", "API_ENDPOINT": srv.URL},
		"--timeout=1ms", "hello")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.HasPrefix(out, "Error: ") || strings.Contains(out, "Answer:") {
		t.Errorf("output = %q, want a single Error: line", out)
	}
	if !strings.Contains(out, "Client.Timeout") {
		t.Errorf("output = %q, want a client timeout error", out)
	}
}

func TestPrompt_InvalidTimeoutEnv(t *testing.T) {
	_, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-test", "ASKAI_TIMEOUT": "soon"}, "hello")
	if err == nil || !strings.Contains(err.Error(), "ASKAI_TIMEOUT must be a duration") {
		t.Fatalf("err = %v, want invalid timeout error", err)
	}
}

func TestPrompt_MissingAPIKey(t *testing.T) {
	_, err := execute(t, nil, "hello")
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY is required") {
		t.Fatalf("err = %v, want missing key error", err)
	}
}

func TestPrompt_RequiresArgs(t *testing.T) {
	if _, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-test"}); err == nil {
		t.Fatal("expected error without a prompt")
	}
}

func TestModelsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"object":"list","data":[{"id":"model-a"},{"id":"model-b"}]}`)
	}))
	defer srv.Close()

	out, err := execute(t, map[string]string{"OPENAI_API_KEY": "sk-test", "OPENAI_BASE_URL": srv.URL}, "models")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "model-a\nmodel-b\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	env := map[string]string{"ASKAI_HOME": home}

	out, err := execute(t, env, "config", "set", "OPENAI_API_KEY", "sk-1234567890abcdef")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if strings.Contains(out, "sk-1234567890abcdef") {
		t.Errorf("secret echoed in clear: %q", out)
	}

	out, err = execute(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var keyLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "OPENAI_API_KEY") {
			keyLine = line
		}
	}
	if !strings.Contains(keyLine, "sk-1***********cdef") {
		t.Errorf("masked key missing from show output: %q", out)
	}
	if fields := strings.Fields(keyLine); len(fields) < 3 || fields[2] != "file" {
		t.Errorf("source column should say file: %q", keyLine)
	}
	if !strings.Contains(keyLine, "API key sent as the bearer token") {
		t.Errorf("description column missing: %q", keyLine)
	}
}
