package logx

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	out, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
	return &buf
}

func TestVerbose(t *testing.T) {
	buf := captureLog(t)
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	Verbose("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose on")
	}
	Verbose("shown %d", 2)
	if !strings.Contains(buf.String(), "[VERBOSE] shown 2") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestInfo(t *testing.T) {
	buf := captureLog(t)

	Info("hello %s", "world")

	if got := buf.String(); got != "[INFO] hello world\n" {
		t.Errorf("unexpected output %q", got)
	}
}
