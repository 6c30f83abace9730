// Package pathtmpl compiles collection page path templates and resolves them
// into output directories, file names and URLs for a concrete tag.
package pathtmpl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tagshelf/internal/logfields"
)

const (
	// FieldPlaceholder is replaced by the slugified tag value.
	FieldPlaceholder = ":field"
	// NumPlaceholder is replaced by the page number.
	NumPlaceholder = ":num"
	// IndexFile is the file written inside every directory-style page.
	IndexFile = "index.html"
)

// ErrInvalidTemplate is wrapped by every TemplateError.
var ErrInvalidTemplate = errors.New("invalid path template")

// TemplateError lists every rule a path template violates.
type TemplateError struct {
	Template string
	Problems []string
}

func (e *TemplateError) Error() string {
	return strings.Join(e.Problems, " ")
}

func (e *TemplateError) Unwrap() error { return ErrInvalidTemplate }

// Template is a validated path template, stored without a leading slash.
type Template struct {
	path string
}

// String returns the template rooted at "/", e.g. "/docs/:field/page:num/index.html".
func (t Template) String() string {
	return "/" + t.path
}

// Segments returns the non-empty path segments of the template.
func (t Template) Segments() []string {
	return splitSegments(t.path)
}

// Compile turns a raw, possibly partial path pattern into a complete template.
// Missing :field, page:num (when requireNum is set) and index.html parts are
// appended; a raw pattern naming an explicit .html file is never extended and
// fails instead when a required placeholder is missing.
func Compile(raw, field, collection string, requireNum bool) (Template, error) {
	path := sanitize(raw)
	if path == "" {
		path = sanitize(collection)
	}

	if !strings.Contains(path, FieldPlaceholder) {
		if isFilePath(path) {
			return Template{}, &TemplateError{Template: path, Problems: []string{
				fmt.Sprintf("Path template '%s' must include a '%s' placeholder.", path, FieldPlaceholder),
			}}
		}
		path = joinPath(path, FieldPlaceholder)
	}

	if requireNum && !strings.Contains(path, NumPlaceholder) {
		if isFilePath(path) {
			return Template{}, &TemplateError{Template: path, Problems: []string{
				fmt.Sprintf("Path template '%s' must include a '%s' placeholder.", path, NumPlaceholder),
			}}
		}
		path = joinPath(path, "page"+NumPlaceholder)
	}

	if !isFilePath(path) {
		path = joinPath(path, IndexFile)
	}

	slog.Debug("Using path template",
		logfields.Template(path),
		logfields.Collection(collection),
		logfields.Field(field))

	if err := validate(path, requireNum); err != nil {
		return Template{}, err
	}
	return Template{path: path}, nil
}

func validate(path string, requireNum bool) error {
	fieldCount := strings.Count(path, FieldPlaceholder)
	numCount := strings.Count(path, NumPlaceholder)

	var problems []string
	if fieldCount != 1 {
		problems = append(problems, fmt.Sprintf("Path template '%s' must include exactly one '%s' placeholder.", path, FieldPlaceholder))
	}
	if requireNum && numCount != 1 {
		problems = append(problems, fmt.Sprintf("Path template '%s' must include exactly one '%s' placeholder.", path, NumPlaceholder))
	}
	if fieldCount > 0 && numCount > 0 && strings.Index(path, NumPlaceholder) < strings.Index(path, FieldPlaceholder) {
		problems = append(problems, fmt.Sprintf("In path template '%s', '%s' must come before '%s'.", path, FieldPlaceholder, NumPlaceholder))
	}
	for _, segment := range splitSegments(path) {
		if strings.Contains(segment, FieldPlaceholder) && strings.Contains(segment, NumPlaceholder) {
			problems = append(problems, fmt.Sprintf("In path template '%s', '%s' and '%s' cannot be in the same file segment.", path, FieldPlaceholder, NumPlaceholder))
		}
	}

	if len(problems) > 0 {
		return &TemplateError{Template: path, Problems: problems}
	}
	return nil
}

func sanitize(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

func joinPath(base, part string) string {
	if base == "" {
		return part
	}
	return base + "/" + part
}

func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// isFilePath reports whether a path or segment names an explicit HTML file.
func isFilePath(path string) bool {
	return strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm")
}
