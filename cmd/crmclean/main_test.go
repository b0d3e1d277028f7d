package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/crmclean/foundation/errx"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "input", err: errx.Input(errors.New("boom"), ""), want: 2},
		{name: "config", err: errx.Config(nil, "bad flag"), want: 2},
		{name: "output", err: errx.Output(errors.New("disk full"), ""), want: 3},
		{name: "other", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRunDispatch(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"frobnicate"}))
}
