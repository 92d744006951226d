package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", "json", &buf)
	defer Init("info", "text", &bytes.Buffer{})

	For("parser").WithField("verb", "take").Debug("parsed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "parser" || line["verb"] != "take" || line["msg"] != "parsed" {
		t.Errorf("Unexpected fields: %v", line)
	}
}

func TestInitBadLevel(t *testing.T) {
	var buf bytes.Buffer
	Init("chatty", "text", &buf)
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %v", Log.GetLevel())
	}
	Log.Debug("hidden")
	Log.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}
