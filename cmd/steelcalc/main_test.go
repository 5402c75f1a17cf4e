package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/steelcalc/internal/cli"
	"github.com/rshade/steelcalc/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		if assert.NotNil(t, root) {
			assert.Equal(t, "steelcalc", root.Use)
		}
	})

	t.Run("run function exists", func(t *testing.T) {
		_ = run
	})
}

func TestExtractExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "row errors exit with 2", err: &cli.RowErrorsExit{Rows: 10, Errors: 3}, want: 2},
		{
			name: "wrapped row errors",
			err:  fmt.Errorf("batch: %w", &cli.RowErrorsExit{Rows: 1, Errors: 1}),
			want: 2,
		},
		{
			name: "joined row errors",
			err:  errors.Join(errors.New("outer"), &cli.RowErrorsExit{Rows: 4, Errors: 2}),
			want: 2,
		},
		{name: "generic error returns 1", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractExitCode(tt.err))
		})
	}
}
