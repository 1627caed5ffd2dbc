// Command actionmenu demonstrates the action-menu engine end to end:
// a chain with rollback, a parallel group, a flaky leaf behind a
// RetryHandler, and a leaf behind a CircuitBreaker, all dispatched
// through a Menu — interactively by default, or once via -headless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.actionmenu.dev/internal/action"
	"go.actionmenu.dev/internal/adapter"
	"go.actionmenu.dev/internal/config"
	"go.actionmenu.dev/internal/core"
	"go.actionmenu.dev/internal/menu"
	"go.actionmenu.dev/internal/resilience"
)

func main() {
	headless := flag.String("headless", "", "run a single option by key and exit, instead of the interactive loop")
	flag.Parse()

	cfg, err := config.LoadWithFile()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	go serveMetrics(cfg.HTTP.Port)

	m := buildDemoMenu(cfg)

	ctx := context.Background()
	if *headless != "" {
		result, err := m.RunHeadless(ctx, *headless)
		if err != nil {
			slog.Error("headless dispatch failed", "key", *headless, "error", err)
			os.Exit(1)
		}
		fmt.Printf("result: %v\n", result)
		return
	}

	m.Run(ctx)
}

func serveMetrics(port int) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Warn("metrics server stopped", "error", err)
	}
}

// buildDemoMenu wires a menu with one option per concrete demo
// scenario: a rollback-capable chain, a parallel group, a
// retry-wrapped flaky leaf, and a circuit-breaker-wrapped leaf.
func buildDemoMenu(cfg *config.Config) *menu.Menu {
	m := menu.New("actionmenu demo", &adapter.StdioDisplay{Out: os.Stdout}, adapter.NewStdioInput(os.Stdin, os.Stdout), nil)
	m.NeverConfirm = cfg.Menu.NeverConfirm
	m.ContinueOnErrorPrompt = cfg.Menu.ContinueOnErrorPrompt

	deploy := buildDeployChain()
	if _, err := m.AddOption("C", "Deploy (chained, with rollback)", deploy); err != nil {
		slog.Error("failed to register option", "error", err)
	}

	fanout := buildFanoutGroup()
	if _, err := m.AddOption("G", "Build artifacts (parallel group)", fanout); err != nil {
		slog.Error("failed to register option", "error", err)
	}

	flaky := buildFlakyRetryAction(cfg)
	if _, err := m.AddOption("R", "Flaky task (retry handler)", flaky); err != nil {
		slog.Error("failed to register option", "error", err)
	}

	guarded := buildGuardedAction(cfg)
	if _, err := m.AddOption("B", "Always-fails task (circuit breaker)", guarded); err != nil {
		slog.Error("failed to register option", "error", err)
	}

	return m
}

func buildDeployChain() *action.ChainedAction {
	build := action.NewLeafAction("build", func(ctx context.Context, args ...any) (any, error) {
		fmt.Println("building...")
		return "built", nil
	}, nil, nil).WithRollback(func(ctx context.Context, args ...any) (any, error) {
		fmt.Println("rolling back build")
		return nil, nil
	})

	test := action.NewLeafAction("test", func(ctx context.Context, args ...any) (any, error) {
		fmt.Println("testing...")
		return "tested", nil
	}, nil, nil)

	deployStep := action.NewLeafAction("deploy", func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("deploy target unreachable")
	}, nil, nil)

	return action.NewChainedAction("deploy-pipeline", []core.Action{build, test, deployStep}, nil, nil)
}

func buildFanoutGroup() *action.ActionGroup {
	linux := action.NewLeafAction("build-linux", func(ctx context.Context, args ...any) (any, error) {
		return "linux-binary", nil
	}, nil, nil)
	darwin := action.NewLeafAction("build-darwin", func(ctx context.Context, args ...any) (any, error) {
		return "darwin-binary", nil
	}, nil, nil)
	windows := action.NewLeafAction("build-windows", func(ctx context.Context, args ...any) (any, error) {
		return "windows-binary", nil
	}, nil, nil)

	return action.NewActionGroup("build-all-platforms", []core.Action{linux, darwin, windows}, nil, nil)
}

// buildFlakyRetryAction returns a leaf whose own on_error hook is a
// RetryHandler: the Menu wraps it in a plain Option via AddOption, so
// the retry logic lives on the action's lifecycle rather than the
// option's.
func buildFlakyRetryAction(cfg *config.Config) *action.LeafAction {
	hooks := core.NewHookManager(nil)
	retry := resilience.NewRetryHandler(cfg.Retry.MaxRetries, cfg.Retry.Delay, cfg.Retry.Backoff, nil)
	_ = hooks.Register(core.PhaseOnError, retry.OnError)

	return action.NewLeafAction("flaky", func(ctx context.Context, args ...any) (any, error) {
		if rand.Float64() < 0.6 {
			return nil, errors.New("simulated transient failure")
		}
		return "success", nil
	}, hooks, nil)
}

// buildGuardedAction returns a leaf guarded by a CircuitBreaker
// registered across all three of its collaborating phases.
func buildGuardedAction(cfg *config.Config) *action.LeafAction {
	hooks := core.NewHookManager(nil)
	breaker := resilience.NewCircuitBreaker("demo-breaker", cfg.Breaker.MaxFailures, cfg.Breaker.ResetTimeout, nil)
	_ = hooks.Register(core.PhaseBefore, breaker.Before)
	_ = hooks.Register(core.PhaseOnError, breaker.OnError)
	_ = hooks.Register(core.PhaseAfter, breaker.After)

	return action.NewLeafAction("always-fails", func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("downstream always unavailable")
	}, hooks, nil)
}
