package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alpha Tag", "alpha-tag"},
		{"  Getting Started  ", "getting-started"},
		{"C++ & Go!", "c-go"},
		{"--already-slugged--", "already-slugged"},
		{"Crème Brûlée", "creme-brulee"},
		{"Straße", "straße"},
		{"日本語 テスト", "日本語-テスト"},
		{"v1.2.3", "v1-2-3"},
		{"हिन्दी", "हिन्दी"},
		{"தமிழ்", "தமிழ்"},
		{"हिन्दी भाषा", "हिन्दी-भाषा"},
		{"タグ", "タグ"},
		{"Ñandú", "nandu"},
		{"", ""},
		{"!!!", ""},
		{"a___b", "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_IsStable(t *testing.T) {
	once := Make("Release Notes 2024")
	assert.Equal(t, once, Make(once))
}

func TestMake_StrayMarkIsSeparator(t *testing.T) {
	assert.Equal(t, "a-b", Make("a \u0301b"))
}
