package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, rejecting requests
	CircuitHalfOpen                     // Testing if recovered
)

// Default configuration values
const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second

	DefaultLatencyAlpha = 0.2
)

// RuntimeStats tracks health and latency of a single model runtime
type RuntimeStats struct {
	mu sync.RWMutex

	avgLatency    time.Duration
	totalRequests int64
	totalFailures int64

	inflight atomic.Int64

	state               CircuitState
	consecutiveFailures int
	lastFailure         time.Time
}

func NewRuntimeStats() *RuntimeStats {
	return &RuntimeStats{
		state: CircuitClosed,
	}
}

// IsAvailable checks if the runtime accepts requests.
// Open circuits turn half-open once the recovery timeout has passed.
func (s *RuntimeStats) IsAvailable(recoveryTimeout time.Duration) bool {
	s.mu.RLock()
	state := s.state
	lastFailure := s.lastFailure
	s.mu.RUnlock()

	switch state {
	case CircuitOpen:
		if time.Since(lastFailure) >= recoveryTimeout {
			s.mu.Lock()
			if s.state == CircuitOpen {
				s.state = CircuitHalfOpen
			}
			s.mu.Unlock()
			return true
		}
		return false

	case CircuitHalfOpen:
		// a single probe request at a time
		return s.inflight.Load() == 0

	default:
		return true
	}
}

// GetMetrics returns current metrics in a thread-safe manner
func (s *RuntimeStats) GetMetrics() (state CircuitState, avgLatency time.Duration, totalRequests, totalFailures, inflight int64) {
	s.mu.RLock()
	state = s.state
	avgLatency = s.avgLatency
	totalRequests = s.totalRequests
	totalFailures = s.totalFailures
	s.mu.RUnlock()

	inflight = s.inflight.Load()
	return
}

// RecordSuccess updates stats after a successful request
func (s *RuntimeStats) RecordSuccess(latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.consecutiveFailures = 0

	// EMA: new_avg = alpha * new_value + (1 - alpha) * old_avg
	if s.totalRequests == 1 {
		s.avgLatency = latency
	} else {
		newAvg := float64(latency)*DefaultLatencyAlpha + float64(s.avgLatency)*(1-DefaultLatencyAlpha)
		s.avgLatency = time.Duration(newAvg)
	}

	if s.state == CircuitHalfOpen {
		s.state = CircuitClosed
	}
}

// RecordFailure updates stats after a failed request
func (s *RuntimeStats) RecordFailure(failureThreshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.totalFailures++
	s.consecutiveFailures++
	s.lastFailure = time.Now()

	if s.state == CircuitHalfOpen || s.consecutiveFailures >= failureThreshold {
		s.state = CircuitOpen
	}
}

// GetLastFailure returns the last failure time in a thread-safe manner
func (s *RuntimeStats) GetLastFailure() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFailure
}

// SetHalfOpen transitions the circuit to half-open state
func (s *RuntimeStats) SetHalfOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = CircuitHalfOpen
}

// AddInflight increments the inflight counter and returns the new value
func (s *RuntimeStats) AddInflight(delta int64) int64 {
	return s.inflight.Add(delta)
}
