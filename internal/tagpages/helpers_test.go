package tagpages

import (
	"bytes"
	"log/slog"
)

type testDoc struct {
	path string
	data map[string]any
}

func (d *testDoc) Path() string         { return d.path }
func (d *testDoc) Data() map[string]any { return d.data }

func doc(path string, field string, value any) *testDoc {
	return &testDoc{path: path, data: map[string]any{field: value}}
}

func docs(in ...*testDoc) []Document {
	out := make([]Document, len(in))
	for i, d := range in {
		out[i] = d
	}
	return out
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
