package diagnosis

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

const (
	stateClosed   = "closed"
	stateOpen     = "open"
	stateHalfOpen = "half_open"
)

// ProtectedGenerator fails fast with ErrCircuitOpen after repeated model
// failures. It never retries.
type ProtectedGenerator struct {
	inner Generator
	cfg   BreakerConfig
	now   func() time.Time

	mu                  sync.Mutex
	state               string
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewProtectedGenerator(inner Generator, cfg BreakerConfig) *ProtectedGenerator {
	//defaults
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &ProtectedGenerator{
		inner: inner,
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

func (g *ProtectedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	// fail-fast gate
	if !g.allowRequest() {
		return "", ErrCircuitOpen
	}

	text, err := g.inner.Generate(ctx, prompt)

	g.afterRequest(err)

	return text, err
}

// State is exposed for tests and readiness output.
func (g *ProtectedGenerator) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *ProtectedGenerator) allowRequest() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case stateOpen:
		// cooldown has passed? move to half open
		if g.now().Sub(g.openedAt) >= g.cfg.Cooldown {
			g.state = stateHalfOpen
			g.halfOpenInFlight = 1
			return true
		}
		return false
	case stateHalfOpen:
		if g.halfOpenInFlight >= g.cfg.HalfOpenMaxCalls {
			return false
		}
		g.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (g *ProtectedGenerator) afterRequest(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// half-open call just finished
	if g.state == stateHalfOpen && g.halfOpenInFlight > 0 {
		g.halfOpenInFlight--
	}

	// an empty candidate list is a well-formed answer, not an outage
	if err == nil || errors.Is(err, ErrNoCandidates) {
		g.consecutiveFailures = 0
		g.state = stateClosed
		return
	}

	// caller gave up; says nothing about the model
	if errors.Is(err, context.Canceled) {
		return
	}

	g.consecutiveFailures++

	// if half-open failed, reopen immediately
	if g.state == stateHalfOpen {
		g.state = stateOpen
		g.openedAt = g.now()
		return
	}

	if g.consecutiveFailures >= g.cfg.FailureThreshold {
		g.state = stateOpen
		g.openedAt = g.now()
	}
}
