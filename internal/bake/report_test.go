package bake

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestReporterCollectsAndMirrors(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	rep.Infof("baked %d maps", 4)
	rep.Warnf("layer %q promoted", "UVMap")
	rep.Errorf("save failed")
	rep.Debugf("progress chatter")

	msgs := rep.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 recorded messages, got %d", len(msgs))
	}
	if msgs[0].Severity != SeverityInfo || msgs[0].Text != "baked 4 maps" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Severity != SeverityWarning {
		t.Errorf("expected warning, got %v", msgs[1].Severity)
	}
	if msgs[2].Severity != SeverityError {
		t.Errorf("expected error, got %v", msgs[2].Severity)
	}
	if rep.Warnings() != 1 {
		t.Errorf("expected 1 warning, got %d", rep.Warnings())
	}

	out := buf.String()
	for _, want := range []string{"baked 4 maps", "promoted", "save failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		SeverityInfo:    "INFO",
		SeverityWarning: "WARNING",
		SeverityError:   "ERROR",
		Severity(99):    "UNKNOWN",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestNewReporterNilLogger(t *testing.T) {
	rep := NewReporter(nil)
	rep.Infof("still works")
	if len(rep.Messages()) != 1 {
		t.Fatal("nil-logger reporter should still record")
	}
}
