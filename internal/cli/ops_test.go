package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want op
	}{
		{"move:3:1", op{kind: opMove, positions: []int{3}, target: 1}},
		{"dup:2", op{kind: opDuplicate, positions: []int{2}}},
		{"del:4,5", op{kind: opDelete, positions: []int{4, 5}}},
		{"del: 1, 2", op{kind: opDelete, positions: []int{1, 2}}},
		{"ins:2:cover.pdf", op{kind: opInsert, target: 2, path: "cover.pdf"}},
		{"ins:1:C:/scans/a.pdf", op{kind: opInsert, target: 1, path: "C:/scans/a.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOp_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"move",
		"move:3",
		"move:a:1",
		"dup:0",
		"del:1,,2",
		"ins:2",
		"ins:x:a.pdf",
		"rotate:1",
	} {
		_, err := parseOp(in)
		assert.Error(t, err, in)
	}
}
