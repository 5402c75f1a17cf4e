package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestConfirmOverwrite(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		input       string
		want        PromptResult
	}{
		{name: "non-interactive declines", interactive: false, input: "y\n", want: PromptResult{}},
		{name: "y accepts", interactive: true, input: "y\n", want: PromptResult{Accepted: true}},
		{name: "YES accepts", interactive: true, input: "YES\n", want: PromptResult{Accepted: true}},
		{name: "padded yes accepts", interactive: true, input: "  yes  \n", want: PromptResult{Accepted: true}},
		{name: "empty defaults to no", interactive: true, input: "\n", want: PromptResult{}},
		{name: "n declines", interactive: true, input: "n\n", want: PromptResult{}},
		{name: "EOF declines", interactive: true, input: "", want: PromptResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmOverwrite(&out, strings.NewReader(tt.input), tt.interactive, "/tmp/config.yaml")
			assert.Equal(t, tt.want, got)
			if tt.interactive {
				assert.Contains(t, out.String(), "/tmp/config.yaml already exists")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestConfirmOverwrite_ReadError(t *testing.T) {
	var out bytes.Buffer
	got := ConfirmOverwrite(&out, iotest.ErrReader(errors.New("tty gone")), true, "c.yaml")
	assert.True(t, got.Cancelled)
	assert.False(t, got.Accepted)
}
