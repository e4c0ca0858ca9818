package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"100", 100},
		{"100B", 100},
		{"100b", 100},
		{"100K", 102400},
		{"100k", 102400},
		{"8M", 8 << 20},
		{"8MB", 8 << 20},
		{"8MiB", 8 << 20},
		{"8 mib", 8 << 20},
		{"1G", 1 << 30},
		{"1T", 1 << 40},
		{"1.5G", 1610612736},
		{"0.5M", 524288},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeErrors(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"K",
		"MiB",
		"notanumber G",
		"-1",
		"-1.5M",
		"9999999999999T",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSize(input)
			assert.Error(t, err)
		})
	}
}

func TestSizeFlag(t *testing.T) {
	var chunk Size = 8 << 20
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&chunk, "chunk-size", "chunk size")

	assert.Equal(t, "8388608", fs.Lookup("chunk-size").DefValue)
	require.NoError(t, fs.Parse([]string{"--chunk-size", "64K"}))
	assert.Equal(t, Size(64<<10), chunk)
	assert.Equal(t, "size", chunk.Type())

	assert.Error(t, fs.Parse([]string{"--chunk-size", "lots"}))
}
