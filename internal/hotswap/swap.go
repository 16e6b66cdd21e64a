package hotswap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hotforge-labs/hotforge/internal/platform"
	"github.com/hotforge-labs/hotforge/internal/project"
)

// Outcome is the terminal state of a swap attempt sequence.
type Outcome int

const (
	// Committed means the staging artifact now sits at the loaded path and
	// the staging path is gone.
	Committed Outcome = iota

	// Abandoned means the swap gave up; the backup (if one was staged) and
	// the staging artifact are left in place for inspection.
	Abandoned
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Result reports how a swap ended.
type Result struct {
	Outcome  Outcome
	Attempts int
	// Err is the terminal error for abandoned swaps, nil when committed.
	Err error
}

// Policy tunes the retry loop.
type Policy struct {
	// MaxAttempts bounds the number of swap attempts.
	MaxAttempts int

	// BaseDelay is the wait after the first locked attempt.
	BaseDelay time.Duration

	// DelayIncrement is added per attempt: wait k = BaseDelay + k*DelayIncrement.
	DelayIncrement time.Duration
}

// DefaultPolicy matches the tuning the tool ships with: generous attempts
// because the host needs time to detect the change and unload the module.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    15,
		BaseDelay:      time.Second,
		DelayIncrement: 200 * time.Millisecond,
	}
}

// backoff returns the delay after attempt k (zero-based).
func (p Policy) backoff(attempt int) time.Duration {
	return p.BaseDelay + time.Duration(attempt)*p.DelayIncrement
}

// Orchestrator performs hot-module swaps.
type Orchestrator struct {
	policy Policy
	log    *slog.Logger

	// Overridable for tests.
	rename func(oldpath, newpath string) error
	remove func(path string) error
	stat   func(path string) (os.FileInfo, error)
	sleep  func(ctx context.Context, d time.Duration) error
}

// New returns an orchestrator with the given policy. A nil logger discards
// progress messages.
func New(policy Policy, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		policy: policy,
		log:    log,
		rename: os.Rename,
		remove: os.Remove,
		stat:   os.Stat,
		sleep:  sleepCtx,
	}
}

// Swap retires the module's loaded artifact and promotes the staging
// artifact into its place.
//
// Guarantees: the loaded path is never displaced before a backup rename has
// succeeded, and an abandoned swap leaves the staging artifact untouched.
// If the swap is abandoned after the backup rename succeeded, the backup
// still exists and the loaded path is absent — recoverable by the operator.
func (o *Orchestrator) Swap(ctx context.Context, mod project.HotModule) Result {
	// Precondition: the staging artifact must exist and be complete.
	if _, err := o.stat(mod.StagingPath); err != nil {
		return Result{
			Outcome: Abandoned,
			Err:     fmt.Errorf("staging artifact missing at %s: %w", mod.StagingPath, err),
		}
	}

	retired := false // loaded path already moved aside (or never existed)
	var lastErr error

retry:
	for attempt := 0; attempt < o.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Outcome: Abandoned, Attempts: attempt, Err: err}
		}

		if !retired {
			err := o.retireLoaded(mod)
			if err != nil {
				if !platform.IsLockError(err) {
					// Permanent cause: abandon immediately, loaded path untouched.
					return Result{
						Outcome:  Abandoned,
						Attempts: attempt + 1,
						Err:      fmt.Errorf("retiring %s: %w", mod.LoadedPath, err),
					}
				}
				lastErr = err
				if attempt == o.policy.MaxAttempts-1 {
					break retry
				}
				wait := o.policy.backoff(attempt)
				o.log.Info("module locked, waiting for host to unload",
					"module", mod.LogicalName,
					"wait", wait,
					"attempt", attempt+1,
					"max_attempts", o.policy.MaxAttempts)
				if err := o.sleep(ctx, wait); err != nil {
					return Result{Outcome: Abandoned, Attempts: attempt + 1, Err: err}
				}
				continue
			}
			retired = true
		}

		// Promote staging into place.
		if err := o.rename(mod.StagingPath, mod.LoadedPath); err != nil {
			lastErr = err
			if !platform.IsLockError(err) {
				return Result{
					Outcome:  Abandoned,
					Attempts: attempt + 1,
					Err:      fmt.Errorf("promoting %s: %w", mod.StagingPath, err),
				}
			}
			if attempt == o.policy.MaxAttempts-1 {
				break
			}
			wait := o.policy.backoff(attempt)
			o.log.Info("promote failed, retrying",
				"module", mod.LogicalName, "wait", wait, "error", err)
			if err := o.sleep(ctx, wait); err != nil {
				return Result{Outcome: Abandoned, Attempts: attempt + 1, Err: err}
			}
			continue
		}

		// Commit check: staging gone, loaded present.
		if _, err := o.stat(mod.StagingPath); err == nil {
			lastErr = fmt.Errorf("staging artifact still present after rename")
			continue
		}
		if _, err := o.stat(mod.LoadedPath); err != nil {
			return Result{
				Outcome:  Abandoned,
				Attempts: attempt + 1,
				Err:      fmt.Errorf("loaded artifact missing after promote: %w", err),
			}
		}

		// Committed: discard the backup, best effort.
		if _, err := o.stat(mod.BackupPath); err == nil {
			if err := o.remove(mod.BackupPath); err != nil {
				o.log.Warn("could not remove backup", "path", mod.BackupPath, "error", err)
			}
		}
		o.log.Info("swap committed", "module", mod.LogicalName, "attempts", attempt+1)
		return Result{Outcome: Committed, Attempts: attempt + 1}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("retry budget exhausted")
	}
	return Result{
		Outcome:  Abandoned,
		Attempts: o.policy.MaxAttempts,
		Err: fmt.Errorf("module %s still locked after %d attempts: %w",
			mod.LogicalName, o.policy.MaxAttempts, lastErr),
	}
}

// retireLoaded moves the loaded artifact to the backup path. A missing
// loaded path is success: there is nothing to retire. A stale backup is
// removed first so the rename cannot fail on an existing target.
func (o *Orchestrator) retireLoaded(mod project.HotModule) error {
	if _, err := o.stat(mod.LoadedPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if _, err := o.stat(mod.BackupPath); err == nil {
		if err := o.remove(mod.BackupPath); err != nil {
			return err
		}
	}

	return o.rename(mod.LoadedPath, mod.BackupPath)
}

// sleepCtx waits for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
