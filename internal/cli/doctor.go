package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hotforge-labs/hotforge/internal/config"
	"github.com/hotforge-labs/hotforge/internal/project"
	"github.com/hotforge-labs/hotforge/internal/toolchain"
	"github.com/spf13/cobra"
)

var doctorNoCache bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorNoCache, "no-cache", false, "Re-probe tools even if a recent probe is cached")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the toolchain and project environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		specs := []toolchain.Spec{
			toolchain.CompilerSpec,
			toolchain.ShaderCompilerSpec,
		}

		failures := 0

		// Project checks are best effort: doctor also runs outside a project.
		proj, projErr := loadProject()
		if projErr == nil {
			headColor.Fprintf(out, "Project %s\n", proj.Manifest.Name)
			successColor.Fprintf(out, "  ok  manifest valid at %s\n", proj.Root)
			if tc := proj.Manifest.Toolchain; tc.Compiler != "" {
				specs[0].Name = tc.Compiler
			}
			if tc := proj.Manifest.Toolchain; tc.ShaderCompiler != "" {
				specs[1].Name = tc.ShaderCompiler
			}
			if len(proj.Manifest.Toolchain.Transpile) > 0 {
				spec := toolchain.TranspilerSpec
				spec.Name = proj.Manifest.Toolchain.Transpile[0]
				specs = append(specs, spec)
			}
		} else if root, rootErr := project.FindRoot("."); rootErr == nil {
			// A manifest exists but would not load; show each schema issue
			// instead of the bare load error.
			headColor.Fprintf(out, "Project at %s\n", root)
			res, valErr := project.ValidateFile(filepath.Join(root, project.ManifestFileName))
			switch {
			case valErr != nil:
				failColor.Fprintf(out, "  bad  manifest: %v\n", valErr)
				failures++
			case !res.Valid:
				for _, issue := range res.Issues {
					failColor.Fprintf(out, "  bad  manifest%s: %s\n", issue.Path, issue.Message)
				}
				failures += len(res.Issues)
			default:
				failColor.Fprintf(out, "  bad  project would not load: %v\n", projErr)
				failures++
			}
		} else {
			noteColor.Fprintf(out, "Not inside a project (%v)\n", projErr)
		}

		cache, _ := toolchain.LoadProbeCache(config.Dir())
		if doctorNoCache || toolchain.IsProbeCacheStale(cache, toolchain.DefaultProbeCacheMaxAge) {
			cache = &toolchain.ProbeCache{Tools: map[string]toolchain.ToolProbe{}}
		} else {
			fmt.Fprintf(out, "Using cached probe from %s (--no-cache to refresh)\n",
				cache.CheckedAt.Format(time.RFC3339))
		}

		headColor.Fprintln(out, "Tools")
		for _, spec := range specs {
			probe, cached := cache.Tools[spec.Name]
			if !cached {
				path, err := toolchain.Locate(spec)
				if err != nil {
					failColor.Fprintf(out, "  missing  %s (%v)\n", spec.Name, err)
					failures++
					continue
				}
				version, err := toolchain.ProbeVersion(ctx, spec.Name, path)
				if err != nil {
					noteColor.Fprintf(out, "  warn  %s at %s: version unknown (%v)\n", spec.Name, path, err)
					cache.Tools[spec.Name] = toolchain.ToolProbe{Path: path}
					continue
				}
				probe = toolchain.ToolProbe{Path: path, Version: version}
				cache.Tools[spec.Name] = probe
			}

			ok, err := toolchain.MeetsMinimum(spec.Name, probe.Version)
			switch {
			case err != nil:
				noteColor.Fprintf(out, "  warn  %s %s at %s (%v)\n", spec.Name, probe.Version, probe.Path, err)
			case !ok:
				failColor.Fprintf(out, "  old   %s %s at %s (minimum %s)\n",
					spec.Name, probe.Version, probe.Path, toolchain.MinVersions[spec.Name])
				failures++
			default:
				successColor.Fprintf(out, "  ok    %s %s at %s\n", spec.Name, probe.Version, probe.Path)
			}
		}

		headColor.Fprintln(out, "SDKs")
		for _, sdk := range []toolchain.SDK{toolchain.ProbeVulkan(), toolchain.ProbeGLFW(), toolchain.ProbeSDL()} {
			if sdk.Found {
				successColor.Fprintf(out, "  ok    %s at %s\n", sdk.Name, sdk.Root)
			} else {
				noteColor.Fprintf(out, "  warn  %s not found; builds that need it will fail\n", sdk.Name)
			}
		}

		cache.CheckedAt = time.Now()
		if err := toolchain.SaveProbeCache(config.Dir(), cache); err != nil {
			noteColor.Fprintf(out, "Warning: could not save probe cache: %v\n", err)
		}

		if failures > 0 {
			return fmt.Errorf("%d tool check(s) failed", failures)
		}
		successColor.Fprintln(out, "All checks passed")
		return nil
	},
}
