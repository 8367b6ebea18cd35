package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"empty", []string{}, nil},
		{"lowercases and trims", []string{" Work ", "HOME"}, []string{"work", "home"}},
		{"strips leading hash", []string{"#todo", "todo"}, []string{"todo"}},
		{"drops empties", []string{"", "  ", "#"}, nil},
		{"dedupes keeping first order", []string{"b", "a", "B", "a"}, []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestNormalizeTagsCap(t *testing.T) {
	in := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		in = append(in, string(rune('a'+i)))
	}
	assert.Len(t, NormalizeTags(in), 20)
}
