package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockDelta(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"if x > 1 then", 1},
		{"while x < 3 then", 1},
		{"for i = 1 to 3", 1},
		{"repeat 3 times", 1},
		{"func add a b", 1},
		{"  end", -1},
		{"end", -1},
		{"elif x > 2 then", 0},
		{"else", 0},
		{"say 1", 0},
		{"let x = 2", 0},
		{"# if a comment mentions if", 0},
		{"", 0},
		{"   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.Equal(t, tt.want, blockDelta(tt.line))
		})
	}
}

func TestWorkerCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"worker"})
	require.NoError(t, err)
	require.Equal(t, "worker", cmd.Name())
	require.True(t, cmd.Hidden)
}
