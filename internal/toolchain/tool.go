package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Output captures the result of a tool invocation.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Tool is a resolved external program with an argv template. Template
// entries may contain {file} and {out} placeholders, expanded per run.
type Tool struct {
	// Name identifies the tool in logs and errors.
	Name string

	// Path is the resolved binary path.
	Path string

	// Args is the argv template.
	Args []string

	// Dir is the working directory for invocations; empty means inherit.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the inherited
	// environment.
	Env []string

	// Stdout and Stderr can be set to stream output while it is captured;
	// nil discards the stream (it is still captured in Output).
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the tool with the argv template expanded against vars.
// A non-zero exit is not an error: callers inspect Output.ExitCode.
func (t *Tool) Run(ctx context.Context, vars map[string]string) (*Output, error) {
	if t.Path == "" {
		return nil, fmt.Errorf("%s: tool not located", t.Name)
	}

	args := expandArgs(t.Args, vars)

	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.Dir = t.Dir
	if len(t.Env) > 0 {
		cmd.Env = append(cmd.Environ(), t.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if t.Stdout != nil {
		cmd.Stdout = io.MultiWriter(t.Stdout, &stdoutBuf)
	}
	if t.Stderr != nil {
		cmd.Stderr = io.MultiWriter(t.Stderr, &stderrBuf)
	}

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", t.Name, err)
	}

	output.ExitCode = 0
	return output, nil
}

// expandArgs substitutes {key} placeholders in each template entry.
func expandArgs(template []string, vars map[string]string) []string {
	if len(vars) == 0 {
		return append([]string(nil), template...)
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	replacer := strings.NewReplacer(pairs...)

	args := make([]string, len(template))
	for i, a := range template {
		args[i] = replacer.Replace(a)
	}
	return args
}
