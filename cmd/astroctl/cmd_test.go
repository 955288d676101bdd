package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  driver: memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPredictCmd(t *testing.T) {
	out, err := run(t, "predict", "--name", "Ritika", "--date", "1995-08-20", "--place", "Jaipur, India", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Zodiac  string `json:"zodiac"`
		Insight string `json:"insight"`
		Source  string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if resp.Zodiac != "Leo" || resp.Insight == "" || resp.Source != "deterministic-fallback" {
		t.Errorf("unexpected output: %+v", resp)
	}
}

func TestPredictCmd_Text(t *testing.T) {
	out, err := run(t, "predict", "--name", "Aarav", "--date", "1990-01-10", "--lang", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Capricorn (deterministic-fallback+translation-adapter)\n[HI] ") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPredictCmd_MissingFlags(t *testing.T) {
	if _, err := run(t, "predict", "--name", "Ritika"); err == nil {
		t.Fatal("expected error without --date")
	}
	if _, err := run(t, "predict", "--name", "Ritika", "--date", "1995-02-30"); err == nil {
		t.Fatal("expected error for impossible date")
	}
}

func TestRetrieveCmd(t *testing.T) {
	out, err := run(t, "retrieve", "Handling unexpected work pressure.", "-k", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "1\t") {
		t.Errorf("exact snippet should rank first: %q", lines[0])
	}
}

func TestProfileCmd(t *testing.T) {
	out, err := run(t, "profile", "Ritika", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"name": "Ritika"`) {
		t.Errorf("unexpected output: %q", out)
	}
}
