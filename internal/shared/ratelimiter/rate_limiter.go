package ratelimiter

import (
	"context"
	"log/slog"
	"time"
)

// progressEvery is how often a pause reports the seconds left.
const progressEvery = 15 * time.Second

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
// 待機中に ctx がキャンセルされた場合は ctx.Err() を返します。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// Factory creates a fresh limiter for one run.
type Factory func(budget int, window time.Duration) RateLimiterInterface

// WindowLimiter caps the number of calls inside a window. It does not smooth
// bursts: once the budget is spent it sleeps until the window has passed.
// The first call of every window is free, so at most budget calls happen per window.
type WindowLimiter struct {
	budget      int
	window      time.Duration
	remaining   int
	windowStart time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewWindowLimiter creates a limiter whose window starts now.
// A budget below 1 is treated as 1.
func NewWindowLimiter(budget int, window time.Duration) *WindowLimiter {
	if budget < 1 {
		budget = 1
	}
	return &WindowLimiter{
		budget:      budget,
		window:      window,
		remaining:   budget - 1,
		windowStart: time.Now(),
		now:         time.Now,
		sleep:       SleepWithProgress,
	}
}

// NewFactory returns a Factory building WindowLimiters.
func NewFactory() Factory {
	return func(budget int, window time.Duration) RateLimiterInterface {
		return NewWindowLimiter(budget, window)
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// A cancelled pause leaves the window state untouched.
func (rl *WindowLimiter) WaitIfNeeded(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.remaining > 0 {
		rl.remaining--
		return nil
	}

	elapsed := rl.now().Sub(rl.windowStart)
	delay := rl.window - elapsed
	if delay < 0 {
		delay = 0
	}
	// one second of margin
	delay += time.Second

	slog.Info("[RATE LIMIT] budget exhausted, sleeping", "budget", rl.budget, "window", rl.window, "delay", delay)
	if err := rl.sleep(ctx, delay); err != nil {
		return err
	}

	rl.remaining = rl.budget - 1
	rl.windowStart = rl.now()
	return nil
}

// SleepWithProgress blocks for d, logging the time left every 15 seconds.
// It returns ctx.Err() as soon as ctx is done.
func SleepWithProgress(ctx context.Context, d time.Duration) error {
	deadline := time.Now().Add(d)
	t := time.NewTicker(progressEvery)
	defer t.Stop()

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("[RATE LIMIT] sleep interrupted", "left", time.Until(deadline).Round(time.Second))
			return ctx.Err()
		case <-timer.C:
			slog.Info("[RATE LIMIT] wake up")
			return nil
		case <-t.C:
			slog.Info("[RATE LIMIT] sleeping", "left", time.Until(deadline).Round(time.Second))
		}
	}
}
