package pathtmpl

import (
	"path"
	"strconv"
	"strings"

	"tagshelf/internal/slug"
)

// TagPath resolves a Template for one tag value.
type TagPath struct {
	tag          string
	segments     []string
	explicitFile bool
}

// For resolves t for a tag value, slugifying the value first.
func (t Template) For(value string) TagPath {
	return newTagPath(t, slug.Make(value))
}

// Literal resolves t with value substituted verbatim. It is used to describe
// the URL scheme (e.g. with ":field" itself) rather than a real page.
func (t Template) Literal(value string) TagPath {
	return newTagPath(t, value)
}

func newTagPath(t Template, value string) TagPath {
	segments := t.Segments()
	last := ""
	if len(segments) > 0 {
		last = segments[len(segments)-1]
	}
	return TagPath{
		tag:          value,
		segments:     segments,
		explicitFile: isFilePath(last) && strings.Contains(last, FieldPlaceholder),
	}
}

// Tag returns the value substituted for :field.
func (p TagPath) Tag() string {
	return p.tag
}

// DirFor returns the output directory of a page, relative to the site root.
// The first page never carries a page segment.
func (p TagPath) DirFor(page int) string {
	segments := p.applyTag(p.segments)
	if page == 1 {
		segments = dropPaginated(segments)
	} else {
		segments = applyNum(segments, page)
	}
	if n := len(segments); n > 0 && isFilePath(segments[n-1]) {
		segments = segments[:n-1]
	}
	return path.Join(segments...)
}

// FilenameFor returns the output file name of a page.
func (p TagPath) FilenameFor(page int) string {
	if len(p.segments) == 0 {
		return IndexFile
	}
	last := p.applyTag(p.segments[len(p.segments)-1:])
	if page == 1 {
		if p.explicitFile {
			return last[0]
		}
		return IndexFile
	}
	return applyNum(last, page)[0]
}

// URLFor returns the site-absolute URL of a page. Pages written as index.html
// are addressed by their directory with a trailing slash.
func (p TagPath) URLFor(page int) string {
	dir := p.DirFor(page)
	filename := p.FilenameFor(page)
	if filename == IndexFile {
		if dir == "" {
			return "/"
		}
		return "/" + dir + "/"
	}
	if dir == "" {
		return "/" + filename
	}
	return "/" + dir + "/" + filename
}

// NavURL is URLFor for an optional page number: nil in, nil out.
func (p TagPath) NavURL(page *int) *string {
	if page == nil {
		return nil
	}
	u := p.URLFor(*page)
	return &u
}

func (p TagPath) applyTag(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = strings.ReplaceAll(s, FieldPlaceholder, p.tag)
	}
	return out
}

func applyNum(segments []string, page int) []string {
	num := strconv.Itoa(page)
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = strings.ReplaceAll(s, NumPlaceholder, num)
	}
	return out
}

// dropPaginated removes the first :num segment and everything after it.
func dropPaginated(segments []string) []string {
	for i, s := range segments {
		if strings.Contains(s, NumPlaceholder) {
			return segments[:i]
		}
	}
	return segments
}
