package acquire

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name string
		runs pdf.TextHorizontal
		want string
	}{
		{
			name: "single run",
			runs: pdf.TextHorizontal{{X: 72, S: "Vessel Name: ALPHA"}},
			want: "Vessel Name: ALPHA",
		},
		{
			name: "runs ordered by x",
			runs: pdf.TextHorizontal{{X: 112, S: "2"}, {X: 72, S: "Berth:"}},
			want: "Berth: 2",
		},
		{
			name: "empty row",
			runs: nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinRow(tt.runs))
		})
	}
}

func TestCleanLines(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanLines("  a   b \n\n \t\nc  "))
	assert.Equal(t, "", cleanLines(" \n "))
}
