package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorFaint  = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// prettyHandler renders records as compact human-readable lines:
//
//	15:04:05.000 INFO  video indexed video_id=dQw4w9WgXcQ chunks=12
//
// Colour is disabled when NO_COLOR is set.
type prettyHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	color  bool
	prefix []slog.Attr
	group  string
}

func newPrettyHandler(w io.Writer, level slog.Leveler) *prettyHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return &prettyHandler{
		mu:    &sync.Mutex{},
		out:   w,
		level: level,
		color: !noColor,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	h.paint(buf, colorFaint, ts.Format("15:04:05.000"))
	buf.WriteByte(' ')
	h.paint(buf, levelColor(r.Level), levelLabel(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.prefix {
		h.writeAttr(buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.prefix = make([]slog.Attr, 0, len(h.prefix)+len(attrs))
	clone.prefix = append(clone.prefix, h.prefix...)
	for _, a := range attrs {
		a.Key = h.group + a.Key
		clone.prefix = append(clone.prefix, a)
	}
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(buf, ga)
		}
		return
	}
	buf.WriteByte(' ')
	h.paint(buf, colorFaint, h.group+a.Key+"=")
	buf.WriteString(quoteValue(a.Value))
}

func (h *prettyHandler) paint(buf *bytes.Buffer, color, s string) {
	if !h.color {
		buf.WriteString(s)
		return
	}
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO "
	case level < slog.LevelError:
		return "WARN "
	default:
		return "ERROR"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

func quoteValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && needsQuoting(s) {
		return strconv.Quote(s)
	}
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}
		return fmt.Sprint(v.Any())
	}
	return s
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r == ' ' || r == '"' || r == '=' || r < ' ' {
			return true
		}
	}
	return false
}
