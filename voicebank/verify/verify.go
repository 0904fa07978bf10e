package verify

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Result is the outcome of one verification attempt.
type Result struct {
	Verified       bool          `json:"verified"`
	Score          float64       `json:"score"`
	Threshold      float64       `json:"threshold"`
	ProcessingTime time.Duration `json:"processingTime"`
}

// Verifier is the identity-verification capability. Implementations report
// whether the user's confidence score clears the threshold; a returned error
// means the attempt itself did not complete (cancellation, upstream outage)
// and callers must treat it as not verified.
type Verifier interface {
	Verify(ctx context.Context, userID string) (Result, error)
}

// DefaultThreshold is the confidence a score must reach to pass.
const DefaultThreshold = 0.82

// Score distribution bounds. The distribution is a policy knob for the demo,
// not a security mechanism.
const (
	scoreMin  = 0.75
	scoreMax  = 0.98
	demoBoost = 0.03
)

// SimulatorConfig tunes the simulated biometric check.
type SimulatorConfig struct {
	// Threshold is the pass mark; zero means DefaultThreshold.
	Threshold float64
	// DemoUserID names the identity that receives a slightly favorable
	// score adjustment.
	DemoUserID string
	// Delay is the simulated processing pause; it honors context
	// cancellation.
	Delay time.Duration
	// Rand supplies randomness; nil means a time-seeded source.
	Rand *rand.Rand
}

// Simulator draws a confidence score from a bounded uniform distribution and
// compares it against the threshold. It implements Verifier.
type Simulator struct {
	threshold  float64
	demoUserID string
	delay      time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Verifier = (*Simulator)(nil)

// NewSimulator builds a simulator from config, applying defaults.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Simulator{
		threshold:  threshold,
		demoUserID: cfg.DemoUserID,
		delay:      cfg.Delay,
		rng:        rng,
	}
}

// Verify draws a score uniformly from [0.75, 0.98], boosted by 0.03 (clamped
// to the upper bound) for the configured demo identity. The simulated delay
// respects ctx; cancellation or timeout returns an error and an unverified
// result.
func (s *Simulator) Verify(ctx context.Context, userID string) (Result, error) {
	started := time.Now()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Result{Threshold: s.threshold, ProcessingTime: time.Since(started)}, ctx.Err()
		case <-timer.C:
		}
	}

	score := s.draw()
	if userID == s.demoUserID && s.demoUserID != "" {
		score += demoBoost
		if score > scoreMax {
			score = scoreMax
		}
	}

	return Result{
		Verified:       score >= s.threshold,
		Score:          score,
		Threshold:      s.threshold,
		ProcessingTime: time.Since(started),
	}, nil
}

func (s *Simulator) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return scoreMin + s.rng.Float64()*(scoreMax-scoreMin)
}

// Static is a deterministic Verifier for tests: it always reports the
// configured score against the configured threshold.
type Static struct {
	Score     float64
	Threshold float64
	Err       error
}

var _ Verifier = Static{}

// Verify implements Verifier.
func (s Static) Verify(_ context.Context, _ string) (Result, error) {
	if s.Err != nil {
		return Result{Threshold: s.Threshold}, s.Err
	}

	return Result{
		Verified:  s.Score >= s.Threshold,
		Score:     s.Score,
		Threshold: s.Threshold,
	}, nil
}
