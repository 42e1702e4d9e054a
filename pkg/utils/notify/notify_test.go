package notify_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	notify "github.com/devantler-tech/shipmate/pkg/utils/notify"
	"github.com/devantler-tech/shipmate/pkg/utils/timer"
)

func TestWriteMessage_ErrorType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "test error",
		Writer:  &out,
	})

	got := out.String()
	want := "✗ test error\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_ErrorType_WithFormatting(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "error: %s (%d)",
		Args:    []any{"failed", 42},
		Writer:  &out,
	})

	got := out.String()
	want := "✗ error: failed (42)\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_WarningType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Warningf(&out, "test warning")

	got := out.String()
	want := "⚠ test warning\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_ActivityType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Activityf(&out, "provisioning %s", "54.168.1.11")

	got := out.String()
	want := "► provisioning 54.168.1.11\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_SuccessType(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Successf(&out, "host provisioned")

	got := out.String()
	want := "✔ host provisioned\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_TitleType_DefaultEmoji(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Provisioning cluster",
		Writer:  &out,
	})

	got := out.String()
	want := "ℹ️ Provisioning cluster\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_MultilineContentIsIndented(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Errorf(&out, "first line\nsecond line")

	got := out.String()
	want := "✗ first line\n  second line\n"

	if got != want {
		t.Fatalf("output mismatch. want %q, got %q", want, got)
	}
}

func TestWriteMessage_SuccessWithTimerPrintsTimingBlock(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	tmr := timer.New()
	tmr.Start()

	time.Sleep(time.Millisecond)

	notify.SuccessWithTimerf(&out, tmr, "done")

	got := out.String()

	if !strings.Contains(got, "✔ done\n") {
		t.Fatalf("missing success line in %q", got)
	}

	if !strings.Contains(got, "⏲ current:") {
		t.Fatalf("missing timing block in %q", got)
	}
}
