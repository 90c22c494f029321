package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/salin"
)

var _ salin.Logger = (*Logger)(nil)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Infof("hello %s", "ulan")
	l.Warnf("careful")
	l.Errorf("broken: %d", 3)
	l.Debugf("hidden")

	out := buf.String()
	for _, want := range []string{"[INFO] hello ulan", "[WARN] careful", "[ERROR] broken: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be off by default")
	}

	l.SetDebug(true)
	l.Debugf("shown")
	if !strings.Contains(buf.String(), "[DEBUG] shown") {
		t.Error("expected debug output")
	}
}

func TestFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "salin.log")
	t.Setenv("SALIN_LOG", path)
	t.Setenv("SALIN_DEBUG", "1")

	l, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	l.Debugf("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[DEBUG] to file") {
		t.Errorf("unexpected log file content %q", data)
	}
}
