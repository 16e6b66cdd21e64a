package hotswap

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/hotforge-labs/hotforge/internal/project"
)

func testModule(t *testing.T) project.HotModule {
	t.Helper()
	dir := t.TempDir()
	artifact := filepath.Join(dir, "librotation.so")
	return project.HotModule{
		LogicalName: "rotation",
		SourcePath:  filepath.Join(dir, "rotation_hot.cpp"),
		LoadedPath:  artifact,
		StagingPath: artifact + ".new",
		BackupPath:  artifact + ".old",
	}
}

// newTestOrch returns an orchestrator whose sleeps are recorded instead of
// performed.
func newTestOrch(p Policy) (*Orchestrator, *[]time.Duration) {
	o := New(p, nil)
	sleeps := &[]time.Duration{}
	o.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return o, sleeps
}

func lockErr(op string) error {
	return &os.LinkError{Op: op, Old: "a", New: "b", Err: syscall.EACCES}
}

func permErr() error {
	return &os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.ENOSPC}
}

func TestSwapCommit(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("old build"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)

	o, sleeps := newTestOrch(DefaultPolicy())
	res := o.Swap(context.Background(), mod)

	if res.Outcome != Committed {
		t.Fatalf("outcome = %v (err=%v), want committed", res.Outcome, res.Err)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if len(*sleeps) != 0 {
		t.Errorf("unexpected backoff sleeps: %v", *sleeps)
	}

	// Commit invariant: staging gone, loaded holds the new build.
	if _, err := os.Stat(mod.StagingPath); !os.IsNotExist(err) {
		t.Error("staging artifact still exists after commit")
	}
	data, err := os.ReadFile(mod.LoadedPath)
	if err != nil || string(data) != "new build" {
		t.Errorf("loaded artifact = %q, %v", data, err)
	}
	// Backup discarded on commit.
	if _, err := os.Stat(mod.BackupPath); !os.IsNotExist(err) {
		t.Error("backup not discarded after commit")
	}
}

func TestSwapCommitWithoutExistingLoaded(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.StagingPath, []byte("first build"), 0755)

	o, _ := newTestOrch(DefaultPolicy())
	res := o.Swap(context.Background(), mod)

	if res.Outcome != Committed {
		t.Fatalf("outcome = %v (err=%v), want committed", res.Outcome, res.Err)
	}
	if _, err := os.Stat(mod.LoadedPath); err != nil {
		t.Errorf("loaded artifact missing: %v", err)
	}
}

func TestSwapMissingStagingAbandonsImmediately(t *testing.T) {
	mod := testModule(t)

	o, sleeps := newTestOrch(DefaultPolicy())
	res := o.Swap(context.Background(), mod)

	if res.Outcome != Abandoned || res.Err == nil {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if len(*sleeps) != 0 {
		t.Error("should not retry a missing staging artifact")
	}
}

func TestSwapExhaustedLeavesLoadedUntouched(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("live module"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)
	before, _ := os.Stat(mod.LoadedPath)

	policy := Policy{MaxAttempts: 4, BaseDelay: time.Second, DelayIncrement: 200 * time.Millisecond}
	o, sleeps := newTestOrch(policy)
	realRename := o.rename
	o.rename = func(oldpath, newpath string) error {
		if oldpath == mod.LoadedPath {
			return lockErr("rename")
		}
		return realRename(oldpath, newpath)
	}

	res := o.Swap(context.Background(), mod)

	if res.Outcome != Abandoned {
		t.Fatalf("outcome = %v, want abandoned", res.Outcome)
	}
	if res.Attempts != policy.MaxAttempts {
		t.Errorf("attempts = %d, want %d", res.Attempts, policy.MaxAttempts)
	}
	// No sleep after the final attempt.
	if len(*sleeps) != policy.MaxAttempts-1 {
		t.Errorf("sleeps = %d, want %d", len(*sleeps), policy.MaxAttempts-1)
	}

	// The module was never touched.
	data, err := os.ReadFile(mod.LoadedPath)
	if err != nil || string(data) != "live module" {
		t.Errorf("loaded artifact = %q, %v", data, err)
	}
	after, _ := os.Stat(mod.LoadedPath)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("loaded artifact timestamp changed")
	}
	// Staging left for inspection.
	if _, err := os.Stat(mod.StagingPath); err != nil {
		t.Error("staging artifact should be left in place")
	}
}

func TestSwapBackoffProgression(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("live module"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)

	// Locked for the first 3 attempts, released on attempt 4.
	policy := Policy{MaxAttempts: 15, BaseDelay: time.Second, DelayIncrement: 200 * time.Millisecond}
	o, sleeps := newTestOrch(policy)
	realRename := o.rename
	failures := 0
	o.rename = func(oldpath, newpath string) error {
		if oldpath == mod.LoadedPath && failures < 3 {
			failures++
			return lockErr("rename")
		}
		return realRename(oldpath, newpath)
	}

	res := o.Swap(context.Background(), mod)

	if res.Outcome != Committed {
		t.Fatalf("outcome = %v (err=%v), want committed", res.Outcome, res.Err)
	}
	if res.Attempts != 4 {
		t.Errorf("attempts = %d, want 4", res.Attempts)
	}

	want := []time.Duration{
		1000 * time.Millisecond,
		1200 * time.Millisecond,
		1400 * time.Millisecond,
	}
	if len(*sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *sleeps, want)
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("sleep[%d] = %v, want %v", i, (*sleeps)[i], d)
		}
	}
}

func TestSwapPermanentErrorAbandonsImmediately(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("live module"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)

	o, sleeps := newTestOrch(DefaultPolicy())
	o.rename = func(oldpath, newpath string) error {
		return permErr()
	}

	res := o.Swap(context.Background(), mod)

	if res.Outcome != Abandoned {
		t.Fatalf("outcome = %v, want abandoned", res.Outcome)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on permanent errors)", res.Attempts)
	}
	if len(*sleeps) != 0 {
		t.Errorf("unexpected sleeps: %v", *sleeps)
	}
	if _, err := os.Stat(mod.LoadedPath); err != nil {
		t.Error("loaded artifact should be untouched")
	}
}

func TestSwapRecoverabilityAfterPromoteFailure(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("live module"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)

	o, _ := newTestOrch(DefaultPolicy())
	realRename := o.rename
	o.rename = func(oldpath, newpath string) error {
		if oldpath == mod.StagingPath {
			return permErr()
		}
		return realRename(oldpath, newpath)
	}

	res := o.Swap(context.Background(), mod)

	if res.Outcome != Abandoned {
		t.Fatalf("outcome = %v, want abandoned", res.Outcome)
	}
	// Recoverability invariant: backup present, loaded absent.
	data, err := os.ReadFile(mod.BackupPath)
	if err != nil || string(data) != "live module" {
		t.Errorf("backup = %q, %v; want the previous module", data, err)
	}
	if _, err := os.Stat(mod.LoadedPath); !os.IsNotExist(err) {
		t.Error("loaded path should be absent after failed promote")
	}
	// Staging undisturbed for inspection.
	if _, err := os.Stat(mod.StagingPath); err != nil {
		t.Error("staging artifact should be left in place")
	}
}

func TestSwapContextCancellation(t *testing.T) {
	mod := testModule(t)
	os.WriteFile(mod.LoadedPath, []byte("live module"), 0755)
	os.WriteFile(mod.StagingPath, []byte("new build"), 0755)

	ctx, cancel := context.WithCancel(context.Background())

	o := New(DefaultPolicy(), nil)
	o.rename = func(oldpath, newpath string) error {
		return lockErr("rename")
	}
	o.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	res := o.Swap(ctx, mod)

	if res.Outcome != Abandoned {
		t.Fatalf("outcome = %v, want abandoned", res.Outcome)
	}
	if res.Err == nil {
		t.Error("expected a context error")
	}
	if _, err := os.Stat(mod.LoadedPath); err != nil {
		t.Error("loaded artifact should be untouched")
	}
}

func TestPolicyBackoff(t *testing.T) {
	p := Policy{BaseDelay: time.Second, DelayIncrement: 200 * time.Millisecond}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 1200 * time.Millisecond},
		{5, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := p.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
