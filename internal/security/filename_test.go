package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"P01", "P01"},
		{"p-1.session", "p-1.session"},
		{"../../etc/passwd", "etc_passwd"},
		{"participant 7 (pilot)", "participant_7_pilot"},
		{"a//b", "a_b"},
		{"", "unknown"},
		{"..", "unknown"},
		{"ü", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilenameLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 500))
	assert.Len(t, got, maxFilenameLen)
}
