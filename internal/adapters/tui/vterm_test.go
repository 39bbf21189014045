package tui_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/tui"
)

func stripReset(s string) string {
	return strings.ReplaceAll(s, "\x1b[0m", "")
}

func TestVterm_WriteFollowsBottom(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.Resize(40, 2)

	_, err := vt.Write([]byte("0\n1\n2\n3"))
	require.NoError(t, err)

	assert.Equal(t, 4, vt.Lines())
	assert.Equal(t, 2, vt.Offset())
	assert.Equal(t, "2\n3", stripReset(vt.View()))
}

func TestVterm_WriteWhileScrolledUp(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.Resize(40, 2)
	_, _ = vt.Write([]byte("0\n1\n2\n3"))

	vt.ScrollToTop()
	_, err := vt.Write([]byte("\n4\n5"))
	require.NoError(t, err)

	assert.Equal(t, 0, vt.Offset())
	assert.Equal(t, "0\n1", stripReset(vt.View()))
}

func TestVterm_Scrolling(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	vt.Resize(40, 2)
	_, _ = vt.Write([]byte("0\n1\n2\n3"))

	vt.Scroll(-1)
	assert.Equal(t, 1, vt.Offset())
	vt.Scroll(-5)
	assert.Equal(t, 0, vt.Offset())
	vt.Scroll(10)
	assert.Equal(t, 2, vt.Offset())

	vt.ScrollPage(-1)
	assert.Equal(t, 0, vt.Offset())
	vt.ScrollPage(1)
	assert.Equal(t, 2, vt.Offset())

	vt.ScrollToTop()
	assert.Equal(t, 0, vt.Offset())
	vt.ScrollToBottom()
	assert.Equal(t, 2, vt.Offset())
}

func TestVterm_Resize(t *testing.T) {
	t.Parallel()

	vt := tui.NewVterm()
	_, _ = vt.Write([]byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n10"))

	vt.Resize(40, 5)
	assert.Equal(t, 5, vt.Height())
	assert.Equal(t, 5, vt.Offset())

	vt.ScrollToTop()
	vt.Resize(40, 2)
	assert.Equal(t, 0, vt.Offset())

	vt.Resize(40, 20)
	assert.Equal(t, 0, vt.Offset())

	vt.Resize(0, 0)
	assert.Equal(t, 1, vt.Height())
}
