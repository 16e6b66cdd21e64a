package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hotforge-labs/hotforge/internal/hotswap"
	"github.com/hotforge-labs/hotforge/internal/project"
	"github.com/hotforge-labs/hotforge/internal/toolchain"
)

// ensureTools resolves the external tools once. The shader compiler is
// allowed to be absent until a shader actually needs compiling.
func (p *Pipeline) ensureTools() error {
	if p.resolved {
		return nil
	}

	tc := p.proj.Manifest.Toolchain

	if len(tc.Transpile) > 0 {
		spec := toolchain.TranspilerSpec
		spec.Name = tc.Transpile[0]
		path, err := p.locate(spec)
		if err != nil {
			return fmt.Errorf("locating transpiler: %w", err)
		}
		p.transpiler = &toolchain.Tool{
			Name:   spec.Name,
			Path:   path,
			Args:   tc.Transpile[1:],
			Dir:    p.proj.Root,
			Stdout: p.out,
			Stderr: p.out,
		}
	}

	compilerSpec := toolchain.CompilerSpec
	if tc.Compiler != "" {
		compilerSpec.Name = tc.Compiler
	}
	compilerPath, err := p.locate(compilerSpec)
	if err != nil {
		return fmt.Errorf("locating compiler: %w", err)
	}
	p.cpp = toolchain.NewCppBuild(compilerPath, tc.CompileFlags, p.log)

	shaderSpec := toolchain.ShaderCompilerSpec
	if tc.ShaderCompiler != "" {
		shaderSpec.Name = tc.ShaderCompiler
	}
	if path, err := p.locate(shaderSpec); err == nil {
		p.shaderPath = path
	} else {
		p.log.Warn("shader compiler not found, shader builds will fail", "error", err)
	}

	p.resolved = true
	return nil
}

// doTranspile runs the script transpiler over the entry script. Projects
// without a transpile template start from C++ directly.
func (p *Pipeline) doTranspile(ctx context.Context) error {
	if p.transpiler == nil {
		return nil
	}

	p.log.Info("transpiling", "entry", p.proj.Manifest.Entry)
	out, err := p.transpiler.Run(ctx, map[string]string{
		"file": p.proj.EntryPath(),
		"out":  p.proj.TranspiledPath(),
	})
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("transpile failed (exit %d): %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return nil
}

// doCompile builds the project executable from the transpiled entry plus
// any engine sources selected by the feature flags.
func (p *Pipeline) doCompile(ctx context.Context) error {
	sources, err := p.executableSources()
	if err != nil {
		return err
	}

	exe := p.proj.ExecutablePath()
	p.log.Info("compiling", "sources", len(sources), "output", filepath.Base(exe))

	tool := &toolchain.Tool{
		Name:   filepath.Base(p.cpp.Compiler),
		Path:   p.cpp.Compiler,
		Args:   p.cpp.ExecutableArgs(sources, exe, p.proj.Features),
		Dir:    p.proj.Root,
		Stdout: p.out,
		Stderr: p.out,
	}
	out, err := tool.Run(ctx, nil)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("compile failed (exit %d): %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return nil
}

// executableSources picks the main source plus feature-selected engine
// sources. Hot-module sources are excluded; they build separately.
func (p *Pipeline) executableSources() ([]string, error) {
	var main string
	if transpiled := p.proj.TranspiledPath(); fileExists(transpiled) {
		main = transpiled
	} else if entry := p.proj.EntryPath(); strings.HasSuffix(entry, ".cpp") && fileExists(entry) {
		main = entry
	} else {
		return nil, fmt.Errorf("no compilable entry: %s has not been transpiled", p.proj.Manifest.Entry)
	}

	sources := []string{main}
	if p.proj.Features != nil && p.proj.Features.UseModularEngine {
		for _, rel := range p.proj.Features.EngineSources {
			src := filepath.Join(p.proj.Root, rel)
			if !fileExists(src) {
				return nil, fmt.Errorf("engine source %s not found", rel)
			}
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// doShaders compiles the given shader paths, or every project shader when
// paths is nil.
func (p *Pipeline) doShaders(ctx context.Context, paths []string) error {
	rels, err := p.shaderList(paths)
	if err != nil {
		return err
	}
	if len(rels) == 0 {
		return nil
	}
	if p.shaderPath == "" {
		return fmt.Errorf("shader compiler not found but project has %d shader(s)", len(rels))
	}

	var errs []error
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(p.proj.Root, rel)
		out := filepath.Join(p.proj.Root, project.SpirvOutputPath(rel))

		p.log.Info("compiling shader", "shader", rel)
		tool := &toolchain.Tool{
			Name:   filepath.Base(p.shaderPath),
			Path:   p.shaderPath,
			Args:   toolchain.ShaderArgs(src, out),
			Stdout: p.out,
			Stderr: p.out,
		}
		result, err := tool.Run(ctx, nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if result.ExitCode != 0 {
			errs = append(errs, fmt.Errorf("shader %s failed (exit %d): %s",
				rel, result.ExitCode, strings.TrimSpace(result.Stderr)))
		}
	}
	return errors.Join(errs...)
}

// shaderList resolves the shader set to build, root-relative.
func (p *Pipeline) shaderList(paths []string) ([]string, error) {
	if paths == nil {
		return p.proj.Shaders()
	}
	var rels []string
	for _, path := range paths {
		if !project.IsShaderSource(path) {
			continue
		}
		rel, err := filepath.Rel(p.proj.Root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(path)
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// doHotModules rebuilds the given hot-module sources into their staging
// paths and swaps each one. A failed module does not stop the others.
func (p *Pipeline) doHotModules(ctx context.Context, paths []string) error {
	mods, err := p.proj.HotModules()
	if err != nil {
		return err
	}
	mods = filterModules(mods, paths)

	var errs []error
	for _, mod := range mods {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.rebuildAndSwap(ctx, mod); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", mod.LogicalName, err))
		}
	}
	return errors.Join(errs...)
}

// rebuildAndSwap compiles one module into staging and swaps it live.
func (p *Pipeline) rebuildAndSwap(ctx context.Context, mod project.HotModule) error {
	p.log.Info("rebuilding hot module", "module", mod.LogicalName)

	tool := &toolchain.Tool{
		Name:   filepath.Base(p.cpp.Compiler),
		Path:   p.cpp.Compiler,
		Args:   p.cpp.SharedLibArgs(mod.SourcePath, mod.StagingPath),
		Dir:    p.proj.Root,
		Stdout: p.out,
		Stderr: p.out,
	}
	out, err := tool.Run(ctx, nil)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("compile failed (exit %d): %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}

	res := p.swapper.Swap(ctx, mod)
	if res.Outcome == hotswap.Abandoned {
		return res.Err
	}
	p.log.Info("module swapped", "module", mod.LogicalName, "attempts", res.Attempts)
	return nil
}

// filterModules keeps the modules whose source changed; nil paths keeps
// all of them.
func filterModules(mods []project.HotModule, paths []string) []project.HotModule {
	if paths == nil {
		return mods
	}
	changed := make(map[string]bool, len(paths))
	for _, path := range paths {
		changed[filepath.Base(path)] = true
	}
	var kept []project.HotModule
	for _, mod := range mods {
		if changed[filepath.Base(mod.SourcePath)] {
			kept = append(kept, mod)
		}
	}
	return kept
}

// Run launches the built executable and streams its output.
func (p *Pipeline) Run(ctx context.Context) error {
	exe := p.proj.ExecutablePath()
	if !fileExists(exe) {
		return fmt.Errorf("%s has not been built", filepath.Base(exe))
	}

	tool := &toolchain.Tool{
		Name:   p.proj.Manifest.Name,
		Path:   exe,
		Dir:    p.proj.Root,
		Stdout: p.out,
		Stderr: p.out,
	}
	out, err := tool.Run(ctx, nil)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%s exited with code %d", p.proj.Manifest.Name, out.ExitCode)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
