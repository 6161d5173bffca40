package terminal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"box-scene/internal/commands"
	"box-scene/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTerminal(t *testing.T) (*Terminal, *logger.Logger) {
	t.Helper()
	log := logger.New(logger.WithFile(""), logger.WithConsole(nil))
	reg := commands.NewRegistry()
	reg.Register("echo", "<text>", nil, func(args []string) (string, error) {
		return strings.Join(args, " "), nil
	})
	return New(log, reg), log
}

func lastLines(log *logger.Logger, n int) []string {
	lines := log.Lines()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		// drop the "[timestamp] " prefix
		out[i] = l[strings.Index(l, "] ")+2:]
	}
	return out
}

func TestSubmitRunsCommand(t *testing.T) {
	term, log := newTerminal(t)
	term.Type("cmd echo hello world")
	term.Submit()

	assert.Equal(t, []string{"> cmd echo hello world", "hello world"}, lastLines(log, 2))
	assert.Empty(t, term.Input())
}

func TestSubmitReportsErrors(t *testing.T) {
	term, log := newTerminal(t)
	term.Type("cmd bogus")
	term.Submit()
	require.NotEmpty(t, log.Lines())
	assert.Contains(t, lastLines(log, 1)[0], "unknown command: bogus")

	term.Type("hello")
	term.Submit()
	assert.Equal(t, "not a command; try: cmd help", lastLines(log, 1)[0])
}

func TestSubmitEmptyLineIsIgnored(t *testing.T) {
	term, log := newTerminal(t)
	term.Submit()
	assert.Empty(t, log.Lines())
}

func TestBackspaceRemovesRune(t *testing.T) {
	term, _ := newTerminal(t)
	term.Type("wü")
	term.Backspace()
	assert.Equal(t, "w", term.Input())
	term.Backspace()
	term.Backspace()
	assert.Equal(t, "", term.Input())
}

func TestHistory(t *testing.T) {
	term, _ := newTerminal(t)
	for _, line := range []string{"cmd echo a", "cmd echo b", "cmd echo b"} {
		term.Type(line)
		term.Submit()
	}
	term.HistoryPrev()
	assert.Equal(t, "cmd echo b", term.Input())
	term.HistoryPrev()
	assert.Equal(t, "cmd echo a", term.Input())
	term.HistoryPrev()
	assert.Equal(t, "cmd echo a", term.Input())
	term.HistoryNext()
	assert.Equal(t, "cmd echo b", term.Input())
	term.HistoryNext()
	assert.Equal(t, "", term.Input())
}

func TestCoversOnlyWhenOpen(t *testing.T) {
	term, _ := newTerminal(t)
	term.screenW, term.screenH = 800, 600
	assert.False(t, term.covers(10, 590))
	term.Toggle()
	assert.True(t, term.IsOpen())
	assert.True(t, term.covers(10, 590))
	assert.False(t, term.covers(10, 100))
}

func TestTailAndClip(t *testing.T) {
	lines := []string{"a", "b", "c"}
	assert.Equal(t, []string{"b", "c"}, tail(lines, 2))
	assert.Equal(t, lines, tail(lines, 14))

	assert.Equal(t, "short", clip("short"))
	long := clip(strings.Repeat("x", 250))
	assert.Len(t, long, 200)
	assert.True(t, strings.HasSuffix(long, "..."))

	// Two-byte runes put byte 197 inside a rune; the cut backs off to its start.
	accented := clip(strings.Repeat("é", 150))
	assert.True(t, utf8.ValidString(accented))
	assert.Equal(t, strings.Repeat("é", 98)+"...", accented)
}
