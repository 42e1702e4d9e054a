package timer_test

import (
	"testing"
	"time"

	"github.com/devantler-tech/shipmate/pkg/utils/timer"
)

func TestGetTiming_BeforeStart(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	total, stage := tmr.GetTiming()

	if total != 0 || stage != 0 {
		t.Fatalf("expected zero durations before Start, got total=%s stage=%s", total, stage)
	}
}

func TestGetTiming_AfterStart(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(5 * time.Millisecond)

	total, stage := tmr.GetTiming()

	if total <= 0 {
		t.Fatalf("expected positive total duration, got %s", total)
	}

	if stage <= 0 {
		t.Fatalf("expected positive stage duration, got %s", stage)
	}
}

func TestNewStage_ResetsStageClock(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(10 * time.Millisecond)

	tmr.NewStage()

	total, stage := tmr.GetTiming()

	if stage > total {
		t.Fatalf("stage duration %s exceeds total %s", stage, total)
	}

	if total < 10*time.Millisecond {
		t.Fatalf("total duration %s did not include the first stage", total)
	}
}

func TestStart_ResetsRunningTimer(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(10 * time.Millisecond)

	tmr.Start()

	total, _ := tmr.GetTiming()

	if total >= 10*time.Millisecond {
		t.Fatalf("expected Start to reset the timer, total is %s", total)
	}
}
