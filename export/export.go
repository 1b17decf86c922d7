// Package export writes extraction results.
//
// JSON is the primary output: {"title", "outline": [{"level", "text",
// "page"}]} with an optional "_accuracy_metrics" block. YAML, an HTML
// table of contents and a Markdown table of contents are also provided.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/outline/model"
)

// Format is an output format.
type Format int

const (
	// FormatJSON writes indented JSON.
	FormatJSON Format = iota
	// FormatYAML writes YAML.
	FormatYAML
	// FormatHTML writes a nested ordered list.
	FormatHTML
	// FormatMarkdown writes a Markdown table of contents.
	FormatMarkdown
)

// String returns the name of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for the format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseFormat parses a format name. "yml" and "md" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return FormatJSON, fmt.Errorf("unknown output format %q", s)
}

// Write writes result to w in the given format.
func Write(w io.Writer, result model.Result, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatYAML:
		return WriteYAML(w, result)
	case FormatHTML:
		return WriteHTML(w, result)
	case FormatMarkdown:
		_, err := io.WriteString(w, MarkdownTOC(result))
		return err
	}
	return fmt.Errorf("unknown output format %d", f)
}

// WriteJSON writes result as JSON indented with four spaces. Non-ASCII and
// HTML characters are written as is.
func WriteJSON(w io.Writer, result model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(result)); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteYAML writes result as YAML.
func WriteYAML(w io.Writer, result model.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(normalize(result)); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}

// MarkdownTOC renders the outline as a nested Markdown list under the title.
func MarkdownTOC(result model.Result) string {
	var sb strings.Builder
	if result.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(result.Title)
		sb.WriteString("\n\n")
	}
	for _, h := range result.Outline {
		sb.WriteString(strings.Repeat("  ", depth(h.Level)-1))
		fmt.Fprintf(&sb, "- %s (p. %d)\n", h.Text, h.Page+1)
	}
	return sb.String()
}

// SaveJSON writes <dir>/<base>.json without the metrics block and returns
// the path written.
func SaveJSON(dir, base string, result model.Result) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, result.Persistable()); err != nil {
		return "", err
	}
	path := filepath.Join(dir, base+FormatJSON.FileExtension())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// normalize makes an empty outline encode as [] rather than null.
func normalize(r model.Result) model.Result {
	if r.Outline == nil {
		r.Outline = []model.Heading{}
	}
	return r
}

// depth is the list nesting of a level. The title level shares the top.
func depth(l model.Level) int {
	switch l {
	case model.LevelH2:
		return 2
	case model.LevelH3:
		return 3
	}
	return 1
}
