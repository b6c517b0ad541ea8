package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{input: "debug", want: zapcore.DebugLevel},
		{input: "info", want: zapcore.InfoLevel},
		{input: "warn", want: zapcore.WarnLevel},
		{input: "error", want: zapcore.ErrorLevel},
		{input: "DEBUG", want: zapcore.DebugLevel},
		{input: "", want: zapcore.InfoLevel},
		{input: "verbose", want: zapcore.InfoLevel},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, parseLogLevel(tc.input), "input %q", tc.input)
	}
}
