package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/hotforge-labs/hotforge/internal/project"
)

const templatesDir = "templates/project"

// Data holds the template variables available to project templates.
type Data struct {
	Name  string // project name, e.g. "demo"
	Entry string // entry source file, e.g. "main.cpp"
}

// Result holds the outcome of a project generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData creates template data with derived fields populated.
func NewData(name string) *Data {
	return &Data{
		Name:  name,
		Entry: "main.cpp",
	}
}

// Generate creates a new project from the embedded templates. The output
// directory must be empty or absent.
func Generate(data *Data, outputDir string) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Refuse to clobber existing files.
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	err = fs.WalkDir(templateFS, templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(templatesDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(outputDir, rel), 0755)
		}

		tmplBytes, err := fs.ReadFile(templateFS, path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		outName := strings.TrimSuffix(rel, ".tmpl")
		outPath := filepath.Join(outputDir, outName)

		tmpl, err := template.New(d.Name()).Parse(string(tmplBytes))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", d.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("executing template %s: %w", d.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Validate the generated manifest against the schema.
	manifestPath := filepath.Join(outputDir, project.ManifestFileName)
	valResult, valErr := project.ValidateFile(manifestPath)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
