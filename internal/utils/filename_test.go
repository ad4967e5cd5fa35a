package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain run dir", input: "run-1234567890", want: true},
		{name: "artifact name", input: "weread_notes_1700000000.json", want: true},
		{name: "empty", input: "", want: false},
		{name: "dot", input: ".", want: false},
		{name: "parent traversal", input: "..", want: false},
		{name: "embedded traversal", input: "run-..-x", want: false},
		{name: "forward slash", input: "run/notes.json", want: false},
		{name: "backslash", input: `run\notes.json`, want: false},
		{name: "absolute path", input: "/etc/passwd", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeToken(tt.input))
		})
	}
}
