package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xoChrisCo/video-toolbox/internal/config"
	"github.com/xoChrisCo/video-toolbox/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
// Quiet mode suppresses Info/Success/Render; warnings and errors always pass.
type Logger struct {
	mu       sync.Mutex
	quiet    bool
	file     *os.File
	filePath string
	progress bool // a \r progress line is currently on screen
	isTTY    bool
}

// NewLogger configures terminal colors from cfg and optionally opens LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := &Logger{quiet: cfg.Quiet, isTTY: term.IsTerminal(os.Stdout)}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.filePath = cfg.LogFile
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearProgress()
	plain := ts + " [" + level + "] " + text + "\n"
	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue). Suppressed in quiet mode.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green). Suppressed in quiet mode.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), also to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Render logs at RENDER level (magenta); used for report sections written to
// the console. Suppressed in quiet mode.
func (l *Logger) Render(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.line("RENDER", term.Magenta, fmt.Sprintf(format, args...))
}

// Outlier logs at OUTLIER level (orange); used for files whose record
// triggered issue flags.
func (l *Logger) Outlier(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.line("OUTLIER", term.Orange, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise. Caller should check Verbose before calling if needed.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}

// Progress shows a single status line. On a TTY it overwrites itself with \r
// so long runs don't scroll the log away; elsewhere it prints a plain line.
// Any following log call clears the line first. Not mirrored to the file
// sink; the per-file log lines already cover progress there.
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	text := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.isTTY {
		_, _ = io.WriteString(os.Stdout, text+"\n")
		return
	}
	if max := term.Width() - 1; len(text) > max {
		text = text[:max]
	}
	_, _ = io.WriteString(os.Stdout, "\r\033[K"+text)
	l.progress = true
}

// EndProgress terminates the progress line, if one is showing, so the next
// write starts on a fresh line.
func (l *Logger) EndProgress() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearProgress()
}

// clearProgress erases a pending \r progress line. Caller holds mu.
func (l *Logger) clearProgress() {
	if !l.progress {
		return
	}
	_, _ = io.WriteString(os.Stdout, "\r\033[K")
	l.progress = false
}
