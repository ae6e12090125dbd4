package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"church_finance_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestProductionLogsAreJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, &config.AppConfig{LogLevel: "info", Environment: "production", Location: time.UTC}, &buf)

	component(l, "payment_service").WithField("item_id", "abc").Info("Scheduled item settled")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"message":   "Scheduled item settled",
		"service":   serviceName,
		"component": "payment_service",
		"item_id":   "abc",
		"level":     "info",
	} {
		if line[key] != want {
			t.Errorf("%s: expected %q, got %v", key, want, line[key])
		}
	}
	if _, ok := line["ts"]; !ok {
		t.Error("expected a ts field")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, &config.AppConfig{LogLevel: "chatty", Environment: "development", Location: time.UTC}, &buf)

	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", l.GetLevel())
	}
	l.Debug("hidden")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatal("debug output written at info level")
	}
}
