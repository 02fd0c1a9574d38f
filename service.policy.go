package main

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResiliencePolicy wraps service reads with a timeout and a fallback value.
// When fault injection is on, a read sleeps for the configured latency
// once every FaultProbabilityFactor calls on average. A nil policy or a
// disabled one runs reads as is.
type ResiliencePolicy struct {
	logger *zap.Logger
	config *ResilienceConfig
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewResiliencePolicy provides a read policy configured from the resilience section.
func NewResiliencePolicy(logger *zap.Logger, config *ResilienceConfig, clock Clocker) *ResiliencePolicy {
	return &ResiliencePolicy{
		logger: logger,
		config: config,
		rnd:    rand.New(rand.NewSource(clock.Now().UnixNano())), //nolint:gosec
	}
}

func (p *ResiliencePolicy) enabled() bool {
	return p != nil && p.config != nil && p.config.Enable
}

// injectFault sleeps if this call was drawn as faulty. It returns early
// when the context is done.
func (p *ResiliencePolicy) injectFault(ctx context.Context, command string) {
	if !p.config.FaultInjection || p.config.FaultProbabilityFactor <= 0 {
		return
	}
	p.mu.Lock()
	draw := p.rnd.Intn(p.config.FaultProbabilityFactor) + 1
	p.mu.Unlock()
	if draw != p.config.FaultProbabilityFactor {
		return
	}

	p.logger.Debug("policy: injecting latency", zap.String("command", command), zap.Duration("latency", p.config.FaultLatency))
	timer := time.NewTimer(p.config.FaultLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// shouldFallback tells whether the failure is a technical one. Business
// answers like a missing document go back to the caller untouched.
func shouldFallback(err error) bool {
	if errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStillReferenced) {
		return false
	}
	return true
}

type readResult[T any] struct {
	value T
	err   error
}

// withPolicy runs read under the policy of p. On timeout or store failure
// it logs and returns the fallback value with no error.
func withPolicy[T any](ctx context.Context, p *ResiliencePolicy, command string, read func(context.Context) (T, error), fallback func() T) (T, error) {
	if !p.enabled() {
		return read(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	done := make(chan readResult[T], 1)
	go func() {
		p.injectFault(ctx, command)
		if err := ctx.Err(); err != nil {
			done <- readResult[T]{err: err}
			return
		}
		v, err := read(ctx)
		done <- readResult[T]{value: v, err: err}
	}()

	var res readResult[T]
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-done:
	}

	if res.err == nil || !shouldFallback(res.err) {
		return res.value, res.err
	}

	p.logger.Warn("policy: read failed, serving fallback", zap.String("command", command), zap.Error(res.err))
	return fallback(), nil
}
