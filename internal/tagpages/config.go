// Package tagpages groups collection documents by a front matter field and
// assembles the paginated listing pages for every value of that field.
package tagpages

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"strconv"
	"strings"

	"tagshelf/internal/logfields"
)

// DefaultLayout is applied to generated pages when an entry names none.
const DefaultLayout = "collection_layout"

// ErrInvalidConfig is wrapped by every collection_pages configuration error.
var ErrInvalidConfig = errors.New("invalid collection_pages config")

// Config is one validated collection_pages entry.
type Config struct {
	Collection string
	Field      string
	// Path is the raw path template; it defaults to the collection name.
	Path   string
	Layout string
	// PerPage is the page size; 0 disables pagination.
	PerPage int
}

// Paginated reports whether tag pages are split into several pages.
func (c Config) Paginated() bool {
	return c.PerPage > 0
}

// ParseConfigs validates the raw collection_pages value, which is either a
// single mapping or a list of mappings. Every entry is validated before any
// is returned: one bad entry fails the whole set.
func ParseConfigs(raw any, logger *slog.Logger) ([]Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		logger.Debug("Processing single collection config")
		cfg, err := NewConfig(v, logger)
		if err != nil {
			return nil, err
		}
		return []Config{cfg}, nil
	case []any:
		logger.Debug("Processing multiple collection configs", slog.Int("entries", len(v)))
		configs := make([]Config, 0, len(v))
		for i, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				logger.Error("Invalid collection config entry", slog.Int("index", i), slog.Any("entry", entry))
				return nil, fmt.Errorf("%w: entry %d is not a mapping: %v", ErrInvalidConfig, i, entry)
			}
			cfg, err := NewConfig(m, logger)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			configs = append(configs, cfg)
		}
		return configs, nil
	default:
		logger.Error("collection_pages must be a mapping or a list of mappings", slog.Any("value", raw))
		return nil, fmt.Errorf("%w: expected a mapping or a list of mappings, got %T", ErrInvalidConfig, raw)
	}
}

// NewConfig builds a Config from one raw entry, applying defaults and
// rejecting missing keys or malformed values.
func NewConfig(raw map[string]any, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	collection, err := stringValue(raw, "collection")
	if err != nil {
		return Config{}, err
	}
	field, err := stringValue(raw, "field")
	if err != nil {
		return Config{}, err
	}

	var missing []string
	if collection == "" {
		missing = append(missing, "collection")
	}
	if field == "" {
		missing = append(missing, "field")
	}
	if len(missing) > 0 {
		logger.Error("Missing required collection config keys", slog.String("missing", strings.Join(missing, ", ")))
		return Config{}, fmt.Errorf("%w: missing: %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	cfg := Config{Collection: collection, Field: field}

	if cfg.Path, err = stringValue(raw, "path"); err != nil {
		return Config{}, err
	}
	if cfg.Path == "" {
		cfg.Path = collection
	}

	layout, err := stringValue(raw, "layout")
	if err != nil {
		return Config{}, err
	}
	if layout == "" {
		layout = DefaultLayout
	}
	cfg.Layout = NormalizeLayout(layout)

	perPage, err := paginateValue(raw["paginate"])
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid paginate value %v for collection '%s' field '%s': expected a numeric value",
			ErrInvalidConfig, raw["paginate"], collection, field)
	}
	if perPage <= 0 && raw["paginate"] != nil {
		logger.Warn("Non-positive paginate value, falling back to single page generation",
			slog.Any("paginate", raw["paginate"]),
			logfields.Collection(collection),
			logfields.Field(field))
		perPage = 0
	}
	cfg.PerPage = perPage

	return cfg, nil
}

// NormalizeLayout strips the file extension and a leading "_layouts/" from a
// layout reference, keeping any subdirectories.
func NormalizeLayout(layout string) string {
	layout = strings.TrimSpace(layout)
	layout = strings.TrimSuffix(layout, path.Ext(layout))
	return strings.TrimPrefix(layout, "_layouts/")
}

func stringValue(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: '%s' must be a string, got %T", ErrInvalidConfig, key, v)
	}
	return strings.TrimSpace(s), nil
}

// paginateValue accepts integers, floats (truncated) and numeric strings,
// including 0x/0o/0b prefixes and underscores.
func paginateValue(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("paginate value %d out of range", n)
		}
		return int(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return 0, fmt.Errorf("paginate value %v out of range", n)
		}
		return int(n), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 0, 32)
		if err != nil {
			return 0, err
		}
		return int(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported paginate type %T", v)
	}
}
