package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONWithServiceAndComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Service: "marketplace-api", Output: &buf})

	l := Component("accounts")
	l.Info().Str("username", "alice").Msg("user registered")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"service":   "marketplace-api",
		"component": "accounts",
		"username":  "alice",
		"message":   "user registered",
		"level":     "info",
	} {
		if entry[key] != want {
			t.Fatalf("%s = %v, want %q", key, entry[key], want)
		}
	}
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "error", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	l := Get()
	l.Error().Msg("boom")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output only in the first writer")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
