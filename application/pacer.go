package application

import (
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
)

const (
	writeAttempts   = 3
	backoffStep     = 2 * time.Second
	interWriteDelay = 500 * time.Millisecond
)

// WritePacer serializes write operations against the rate-limited comment API:
// a fixed courtesy delay between consecutive writes, and a bounded retry with
// increasing backoff around each one. The sleep function is injectable so
// tests run with zero delay.
type WritePacer struct {
	Attempts int
	Backoff  time.Duration // Wait after attempt n is n x Backoff
	Delay    time.Duration // Fixed delay between consecutive writes
	Sleep    func(time.Duration)

	wroteBefore bool
}

// NewWritePacer creates a pacer with the production policy: 3 attempts,
// attempt x 2s backoff, 500ms between writes.
func NewWritePacer() *WritePacer {
	return &WritePacer{
		Attempts: writeAttempts,
		Backoff:  backoffStep,
		Delay:    interWriteDelay,
		Sleep:    time.Sleep,
	}
}

// Run executes one write operation under the pacing policy. The final
// attempt's failure is returned to the caller.
func (p *WritePacer) Run(op string, fn func() error) error {
	if p.wroteBefore {
		p.Sleep(p.Delay)
	}
	p.wroteBefore = true

	return retry(op, p.Attempts, p.Backoff, p.Sleep, fn)
}

// Retry runs fn under the shared transient-failure policy: 3 attempts with a
// backoff of attempt x 2 seconds, the last failure propagated.
func Retry(op string, sleep func(time.Duration), fn func() error) error {
	return retry(op, writeAttempts, backoffStep, sleep, fn)
}

func retry(op string, attempts int, backoff time.Duration, sleep func(time.Duration), fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < attempts {
			wait := time.Duration(attempt) * backoff
			logger.Warnf("%s failed (attempt %d/%d), retrying in %s: %v",
				op, attempt, attempts, wait, lastErr)
			sleep(wait)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
