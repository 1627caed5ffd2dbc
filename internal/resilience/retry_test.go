package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.actionmenu.dev/internal/action"
	"go.actionmenu.dev/internal/core"
)

func TestRetryHandler_RecoversWithinMaxRetries(t *testing.T) {
	attempts := 0
	hooks := core.NewHookManager(nil)
	retry := NewRetryHandler(3, time.Millisecond, 1.0, nil)
	_ = hooks.Register(core.PhaseOnError, retry.OnError)

	leaf := action.NewLeafAction("flaky", func(ctx context.Context, args ...any) (any, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return "recovered", nil
	}, hooks, nil)

	result, err := leaf.Invoke(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "recovered" {
		t.Fatalf("result = %v, want recovered", result)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (1 initial + 2 retries)", attempts)
	}
}

func TestRetryHandler_ExhaustsAndFails(t *testing.T) {
	hooks := core.NewHookManager(nil)
	retry := NewRetryHandler(2, time.Millisecond, 1.0, nil)
	_ = hooks.Register(core.PhaseOnError, retry.OnError)

	attempts := 0
	leaf := action.NewLeafAction("always-fails", func(ctx context.Context, args ...any) (any, error) {
		attempts++
		return nil, errors.New("permanent")
	}, hooks, nil)

	_, err := leaf.Invoke(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (1 initial + 2 retries)", attempts)
	}
}

func TestRetryHandler_AfterPhaseRunsExactlyOnceOnRecovery(t *testing.T) {
	hooks := core.NewHookManager(nil)
	retry := NewRetryHandler(5, time.Millisecond, 1.0, nil)
	_ = hooks.Register(core.PhaseOnError, retry.OnError)

	afterCount := 0
	_ = hooks.Register(core.PhaseAfter, func(ctx *core.Context) error {
		afterCount++
		return nil
	})

	attempts := 0
	leaf := action.NewLeafAction("flaky", func(ctx context.Context, args ...any) (any, error) {
		attempts++
		if attempts < 4 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}, hooks, nil)

	if _, err := leaf.Invoke(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if afterCount != 1 {
		t.Fatalf("after hook ran %d times, want 1 regardless of retry count", afterCount)
	}
}
