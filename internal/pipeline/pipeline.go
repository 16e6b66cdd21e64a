package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hotforge-labs/hotforge/internal/config"
	"github.com/hotforge-labs/hotforge/internal/hotswap"
	"github.com/hotforge-labs/hotforge/internal/project"
	"github.com/hotforge-labs/hotforge/internal/toolchain"
	"github.com/hotforge-labs/hotforge/internal/watch"
)

// State is the pipeline's lifecycle word.
type State int32

const (
	// StateIdle means no build is running and triggers are accepted.
	StateIdle State = iota

	// StateBuilding means a build is in flight.
	StateBuilding

	// StateCooldown means a build just finished; triggers are still
	// dropped so artifact writes cannot retrigger a build.
	StateCooldown
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Kind selects which stages a build runs.
type Kind int

const (
	// KindFull runs every stage.
	KindFull Kind = iota

	// KindShaders recompiles only the changed shaders.
	KindShaders

	// KindHotModules rebuilds and swaps only the changed hot modules.
	KindHotModules
)

// Pipeline owns the build stages for one project.
//
// Build and Serve must not be called concurrently; Serve is the single
// consumer of the trigger channel.
type Pipeline struct {
	proj *project.Project
	log  *slog.Logger
	out  io.Writer

	state    atomic.Int32
	cooldown time.Duration
	swapper  *hotswap.Orchestrator

	// locate resolves external tools; overridable for tests.
	locate func(toolchain.Spec) (string, error)

	resolved   bool
	transpiler *toolchain.Tool
	cpp        *toolchain.CppBuild
	shaderPath string

	// Stage hooks, overridable for tests.
	transpileStage func(ctx context.Context) error
	compileStage   func(ctx context.Context) error
	shaderStage    func(ctx context.Context, paths []string) error
	hotStage       func(ctx context.Context, paths []string) error
}

// New builds a pipeline for the project. Tools are located lazily on the
// first build so status commands never fail on a missing compiler. A nil
// logger discards progress messages; out receives tool output and may be
// nil.
func New(proj *project.Project, log *slog.Logger, out io.Writer) *Pipeline {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out == nil {
		out = io.Discard
	}

	policy := SwapPolicy(proj.Manifest.Hotswap)

	p := &Pipeline{
		proj:     proj,
		log:      log,
		out:      out,
		cooldown: cooldownFor(proj.Manifest.Watch),
		swapper:  hotswap.New(policy, log),
		locate:   toolchain.Locate,
	}
	p.transpileStage = p.doTranspile
	p.compileStage = p.doCompile
	p.shaderStage = p.doShaders
	p.hotStage = p.doHotModules
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// SuppressTriggers reports whether the watcher should drop triggers.
func (p *Pipeline) SuppressTriggers() bool {
	return p.State() != StateIdle
}

// Classify picks the cheapest build kind that covers the changed paths.
// An empty change set means a user-requested build and is always full.
func Classify(paths []string) Kind {
	if len(paths) == 0 {
		return KindFull
	}

	shadersOnly := true
	hotOnly := true
	for _, path := range paths {
		if !project.IsShaderSource(path) {
			shadersOnly = false
		}
		if !project.IsHotSource(path) {
			hotOnly = false
		}
	}
	switch {
	case shadersOnly:
		return KindShaders
	case hotOnly:
		return KindHotModules
	default:
		return KindFull
	}
}

// Build runs the stages selected by the changed paths. Pass nil paths for
// a full build.
func (p *Pipeline) Build(ctx context.Context, changed []string) error {
	if err := p.ensureTools(); err != nil {
		return err
	}

	start := time.Now()
	kind := Classify(changed)

	var err error
	switch kind {
	case KindShaders:
		err = p.shaderStage(ctx, changed)
	case KindHotModules:
		err = p.hotStage(ctx, changed)
	default:
		err = p.fullBuild(ctx)
	}

	if err != nil {
		p.log.Error("build failed", "elapsed", time.Since(start), "error", err)
		return err
	}
	p.log.Info("build finished", "elapsed", time.Since(start))
	return nil
}

// fullBuild runs every stage in order, stopping between stages on
// cancellation.
func (p *Pipeline) fullBuild(ctx context.Context) error {
	stages := []func(context.Context) error{
		p.transpileStage,
		p.compileStage,
		func(ctx context.Context) error { return p.shaderStage(ctx, nil) },
		func(ctx context.Context) error { return p.hotStage(ctx, nil) },
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stage(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Transpile runs only the transpile stage.
func (p *Pipeline) Transpile(ctx context.Context) error {
	if err := p.ensureTools(); err != nil {
		return err
	}
	return p.transpileStage(ctx)
}

// Shaders compiles the given shaders, or every project shader when paths
// is nil.
func (p *Pipeline) Shaders(ctx context.Context, paths []string) error {
	if err := p.ensureTools(); err != nil {
		return err
	}
	return p.shaderStage(ctx, paths)
}

// HotModules rebuilds and swaps the hot modules whose sources are listed,
// or all of them when paths is nil.
func (p *Pipeline) HotModules(ctx context.Context, paths []string) error {
	if err := p.ensureTools(); err != nil {
		return err
	}
	return p.hotStage(ctx, paths)
}

// HotloadReport summarizes what a hotload pass rebuilt.
type HotloadReport struct {
	ModulesSwapped  int
	ShadersCompiled int
	FullRebuild     bool
}

// Any reports whether the pass rebuilt anything.
func (r *HotloadReport) Any() bool {
	return r.ModulesSwapped > 0 || r.ShadersCompiled > 0 || r.FullRebuild
}

// Hotload rebuilds everything the project declares hot-reloadable. Passing
// module source paths restricts the pass to those modules; nil rebuilds
// every hot module plus the shaders declared @hot in the entry script.
// When the entry declares @hot resources and no module needs swapping, the
// executable itself is rebuilt so the new declarations link in; the host
// has to restart to pick those up.
func (p *Pipeline) Hotload(ctx context.Context, modulePaths []string) (*HotloadReport, error) {
	if err := p.ensureTools(); err != nil {
		return nil, err
	}
	ann, err := p.proj.ScanAnnotations()
	if err != nil {
		return nil, err
	}

	targets := modulePaths
	if targets == nil {
		mods, err := p.proj.HotModules()
		if err != nil {
			return nil, err
		}
		for _, mod := range mods {
			targets = append(targets, mod.SourcePath)
		}
	}

	report := &HotloadReport{}

	switch {
	case len(targets) > 0:
		// Module code originates in the entry script, so transpile first.
		if err := p.transpileStage(ctx); err != nil {
			return nil, err
		}
		if err := p.hotStage(ctx, targets); err != nil {
			return nil, err
		}
		report.ModulesSwapped = len(targets)
	case ann.HotResources:
		if err := p.fullBuild(ctx); err != nil {
			return nil, err
		}
		report.FullRebuild = true
		// The full build already covered the shaders.
		return report, nil
	}

	if modulePaths == nil && len(ann.HotShaders) > 0 {
		paths := make([]string, 0, len(ann.HotShaders))
		for _, decl := range ann.HotShaders {
			paths = append(paths, decl.Path)
		}
		if err := p.shaderStage(ctx, paths); err != nil {
			return nil, err
		}
		report.ShadersCompiled = len(paths)
	}
	return report, nil
}

// Serve consumes triggers until ctx is canceled or the channel closes.
func (p *Pipeline) Serve(ctx context.Context, triggers <-chan watch.Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case trig, ok := <-triggers:
			if !ok {
				return
			}
			p.runTriggered(ctx, trig)
		}
	}
}

// runTriggered executes one triggered build and holds the cooldown window
// afterwards so the swap's own artifact writes cannot retrigger.
func (p *Pipeline) runTriggered(ctx context.Context, trig watch.Trigger) {
	p.state.Store(int32(StateBuilding))
	defer p.state.Store(int32(StateIdle))

	p.log.Info("change detected", "files", len(trig.Paths))
	if err := p.Build(ctx, trig.Paths); err != nil {
		p.log.Error("triggered build failed", "error", err)
	}

	p.state.Store(int32(StateCooldown))
	select {
	case <-ctx.Done():
	case <-time.After(p.cooldown):
	}
}

// SwapPolicy converts manifest overrides into a swap retry policy; zero
// fields fall back to the global config and then to the defaults.
func SwapPolicy(cfg project.HotswapConfig) hotswap.Policy {
	policy := hotswap.DefaultPolicy()
	policy.MaxAttempts = config.GetInt(config.KeySwapAttempts, policy.MaxAttempts)
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelayMS > 0 {
		policy.BaseDelay = time.Duration(cfg.BaseDelayMS) * time.Millisecond
	}
	if cfg.DelayIncrementMS > 0 {
		policy.DelayIncrement = time.Duration(cfg.DelayIncrementMS) * time.Millisecond
	}
	return policy
}

// WatchOptions converts manifest overrides into watcher options; zero
// fields keep the defaults.
func WatchOptions(cfg project.WatchConfig) watch.Options {
	opts := watch.DefaultOptions()
	if cfg.SettleMS > 0 {
		opts.SettleDelay = time.Duration(cfg.SettleMS) * time.Millisecond
	}
	if cfg.MinIntervalMS > 0 {
		opts.MinInterval = time.Duration(cfg.MinIntervalMS) * time.Millisecond
	}
	return opts
}

// cooldownFor returns the post-build cooldown window.
func cooldownFor(cfg project.WatchConfig) time.Duration {
	if cfg.CooldownMS > 0 {
		return time.Duration(cfg.CooldownMS) * time.Millisecond
	}
	return 2 * time.Second
}
