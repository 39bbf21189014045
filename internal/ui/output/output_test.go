package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/anvil/internal/ui/output"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name    string
		noColor string
		mode    output.Mode
		want    termenv.Profile
	}{
		{name: "ci", mode: output.ANSI, want: termenv.ANSI},
		{name: "module tree", mode: output.TrueColor, want: termenv.TrueColor},
		{name: "ci without colors", noColor: "1", mode: output.ANSI, want: termenv.Ascii},
		{name: "module tree without colors", noColor: "1", mode: output.TrueColor, want: termenv.Ascii},
		{name: "log without colors", noColor: "1", mode: output.Detect, want: termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			assert.Equal(t, tt.want, output.Profile(tt.mode))
		})
	}
}

func TestProfile_DetectStaysInRange(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	p := output.Profile(output.Detect)
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
}

func TestNew_ColorsFailedModule(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	out := output.New(&buf, output.ANSI)
	_, _ = out.WriteString(out.String("[App] ✗ Failed").Foreground(termenv.ANSIRed).String())

	assert.Equal(t, "\x1b[31m[App] ✗ Failed\x1b[0m", buf.String())
}

func TestNew_PlainWithoutColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf, output.TrueColor)
	_, _ = out.WriteString(out.String("[Core] ✓ Done in 1.2s").Foreground(termenv.ANSIGreen).String())

	assert.Equal(t, "[Core] ✓ Done in 1.2s", buf.String())
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil, output.Detect))
}
