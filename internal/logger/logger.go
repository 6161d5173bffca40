package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/viewer.log"

// maxLines bounds the in-memory history shown by the terminal overlay.
const maxLines = 500

// Logger stores lines of text in memory (for the terminal overlay), appends them to a file on disk
// and echoes them, colored by level, to the console. Slog returns a *slog.Logger backed by it.
type Logger struct {
	mu      sync.Mutex
	lines   []string
	path    string
	console *termenv.Output
	level   slog.LevelVar
}

// Option configures a Logger.
type Option func(*Logger)

// WithFile sets the log file path. An empty path disables the file.
func WithFile(path string) Option {
	return func(l *Logger) { l.path = path }
}

// WithConsole sets the console writer. Nil disables console output.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		if w == nil {
			l.console = nil
			return
		}
		l.console = termenv.NewOutput(w)
	}
}

// WithLevel sets the minimum level for slog records.
func WithLevel(level slog.Level) Option {
	return func(l *Logger) { l.level.Set(level) }
}

// New returns a Logger writing to LogFilePath and stderr at Info level, and ensures the log directory exists.
func New(opts ...Option) *Logger {
	l := &Logger{path: LogFilePath, console: termenv.NewOutput(os.Stderr)}
	l.level.Set(slog.LevelInfo)
	for _, o := range opts {
		o(l)
	}
	if l.path != "" {
		_ = os.MkdirAll(filepath.Dir(l.path), 0755)
	}
	return l
}

// SetLevel changes the minimum slog level at runtime.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Log appends a plain line (e.g. terminal input). Each entry is prefixed with [timestamp].
func (l *Logger) Log(line string) {
	l.write(slog.LevelInfo, line, false)
}

func (l *Logger) write(level slog.Level, line string, echo bool) {
	stamped := "[" + time.Now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0:0], l.lines[len(l.lines)-maxLines:]...)
	}
	console := l.console
	l.mu.Unlock()

	if echo && console != nil {
		_, _ = io.WriteString(console, colorize(console, level, stamped)+"\n")
	}
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func colorize(out *termenv.Output, level slog.Level, s string) string {
	style := out.String(s)
	switch {
	case level >= slog.LevelError:
		style = style.Foreground(termenv.ANSIRed).Bold()
	case level >= slog.LevelWarn:
		style = style.Foreground(termenv.ANSIYellow)
	case level < slog.LevelInfo:
		style = style.Faint()
	}
	return style.String()
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Slog returns a structured logger that writes through l.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&handler{l: l})
}

// LevelFromFlags maps the CLI verbosity flags to a level: verbose wins over quiet, default Info.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses "debug", "info", "warn" or "error" (case-insensitive). Unknown names give Info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
