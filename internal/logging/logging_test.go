package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chaos-tools/chaos-assistant/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, &config.Config{LogLevel: "warn", LogFormat: "text"})

		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info line should be suppressed at warn level:\n%s", out)
		}
		if !strings.Contains(out, "visible") {
			t.Errorf("warn line missing:\n%s", out)
		}
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, &config.Config{LogLevel: "shouting", LogFormat: "text"})

		logger.Debug("hidden")
		logger.Info("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("debug line should be suppressed at info level:\n%s", out)
		}
		if !strings.Contains(out, "visible") {
			t.Errorf("info line missing:\n%s", out)
		}
	})

	t.Run("json format emits JSON lines", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, &config.Config{LogLevel: "info", LogFormat: "json"})

		logger.Info("loaded", "items", 3)

		line := strings.TrimSpace(buf.String())
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, line)
		}
		if doc["msg"] != "loaded" {
			t.Errorf("msg: got %v, want loaded", doc["msg"])
		}
	})
}
