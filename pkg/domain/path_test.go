package domain

import (
	"testing"
)

func TestReconstructPath(t *testing.T) {
	tests := []struct {
		name     string
		parent   map[int64]int64
		source   int64
		sink     int64
		expected []int64
	}{
		{
			name: "simple path",
			parent: map[int64]int64{
				1: -1,
				2: 1,
				3: 2,
			},
			source:   1,
			sink:     3,
			expected: []int64{1, 2, 3},
		},
		{
			name: "direct path",
			parent: map[int64]int64{
				1: -1,
				2: 1,
			},
			source:   1,
			sink:     2,
			expected: []int64{1, 2},
		},
		{
			name:     "sink not in parent",
			parent:   map[int64]int64{1: -1},
			source:   1,
			sink:     3,
			expected: nil,
		},
		{
			name:     "empty parent",
			parent:   map[int64]int64{},
			source:   1,
			sink:     2,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReconstructPath(tt.parent, tt.source, tt.sink)
			if !int64SliceEqual(result, tt.expected) {
				t.Errorf("ReconstructPath() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
