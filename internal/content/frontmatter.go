package content

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter is returned when a file opens a front matter
// block but never closes it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// splitFrontMatter separates a leading `---` delimited YAML block from the body.
// Files without the opening delimiter are all body.
func splitFrontMatter(raw []byte) (fm []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if bytes.HasPrefix(raw, []byte("---\r\n")) {
		nl = []byte("\r\n")
	} else if !bytes.HasPrefix(raw, []byte("---\n")) {
		return nil, raw, false, nil
	}

	delim := append([]byte("---"), nl...)
	rest := raw[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return []byte{}, rest[len(delim):], true, nil
	}

	closing := append(append([]byte{}, nl...), delim...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(rest, append(append([]byte{}, nl...), []byte("---")...)) {
			return rest[:len(rest)-3], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

// parseFrontMatter decodes fm into both the typed Meta and the raw field map.
func parseFrontMatter(fm []byte) (Meta, map[string]any, error) {
	meta := Meta{}
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return meta, fields, nil
	}
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return Meta{}, nil, err
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return Meta{}, nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return meta, fields, nil
}
