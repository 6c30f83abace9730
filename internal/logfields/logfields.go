package logfields

import "log/slog"

// Canonical log field names shared by the generator packages.
const (
	KeyBuildID    = "build_id"
	KeyCollection = "collection"
	KeyField      = "field"
	KeyTag        = "tag"
	KeyTemplate   = "template"
	KeyPages      = "pages"
	KeyPath       = "path"
	KeyLayout     = "layout"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Field(name string) slog.Attr      { return slog.String(KeyField, name) }
func Tag(tag string) slog.Attr         { return slog.String(KeyTag, tag) }
func Template(t string) slog.Attr      { return slog.String(KeyTemplate, t) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Layout(name string) slog.Attr     { return slog.String(KeyLayout, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
