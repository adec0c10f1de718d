package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds the process logger. Output is human-readable when w is a
// terminal and JSON otherwise. Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// TaskLogger records the progress lines of a single run so they can be
// returned to the caller, and forwards each one to zerolog.
type TaskLogger struct {
	log   zerolog.Logger
	lines []string
	mu    sync.Mutex
	now   func() time.Time
}

func NewTaskLogger(log zerolog.Logger) *TaskLogger {
	return &TaskLogger{
		log: log,
		now: time.Now,
	}
}

func (l *TaskLogger) Log(format string, args ...any) {
	l.record(zerolog.InfoLevel, format, args...)
}

// Warn records a line that does not fail the run but that the operator
// should see.
func (l *TaskLogger) Warn(format string, args ...any) {
	l.record(zerolog.WarnLevel, format, args...)
}

func (l *TaskLogger) record(level zerolog.Level, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	full := fmt.Sprintf("[%s] %s", l.now().Format("15:04:05"), line)

	l.mu.Lock()
	l.lines = append(l.lines, full)
	l.mu.Unlock()

	l.log.WithLevel(level).Msg(line)
}

func (l *TaskLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.lines))
	copy(cp, l.lines)
	return cp
}
