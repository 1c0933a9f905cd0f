package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFor(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{length: 0, width: 80, want: 2},
		{length: 80, width: 80, want: 2},
		{length: 81, width: 80, want: 3},
		{length: 200, width: 0, want: 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, linesFor(tt.length, tt.width), "%d/%d", tt.length, tt.width)
	}
}
