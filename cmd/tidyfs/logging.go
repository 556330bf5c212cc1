package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	internal "github.com/ZanzyTHEbar/tidyfs/tfs"
	"github.com/ZanzyTHEbar/tidyfs/tfs/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// setupLogging configures zerolog for the process and routes the library's
// slog records through the same logger.
func setupLogging(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := internal.GetLogger().Output(w).Level(level)
	if useConsole(cfg.Format, w) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
	}

	slog.SetDefault(slog.New(&zerologHandler{logger: logger, level: slogLevel(level)}))
	return logger
}

func useConsole(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func slogLevel(level zerolog.Level) slog.Level {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return slog.LevelDebug
	case zerolog.WarnLevel:
		return slog.LevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// zerologHandler is a slog.Handler that writes through a zerolog.Logger.
type zerologHandler struct {
	logger zerolog.Logger
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *zerologHandler) Handle(_ context.Context, r slog.Record) error {
	var event *zerolog.Event
	switch {
	case r.Level >= slog.LevelError:
		event = h.logger.Error()
	case r.Level >= slog.LevelWarn:
		event = h.logger.Warn()
	case r.Level >= slog.LevelInfo:
		event = h.logger.Info()
	default:
		event = h.logger.Debug()
	}

	for _, a := range h.attrs {
		event = h.appendAttr(event, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		event = h.appendAttr(event, a)
		return true
	})
	event.Msg(r.Message)
	return nil
}

func (h *zerologHandler) appendAttr(event *zerolog.Event, a slog.Attr) *zerolog.Event {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return event.Str(key, v.String())
	case slog.KindInt64:
		return event.Int64(key, v.Int64())
	case slog.KindBool:
		return event.Bool(key, v.Bool())
	case slog.KindDuration:
		return event.Dur(key, v.Duration())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return event.AnErr(key, err)
		}
	}
	return event.Interface(key, v.Any())
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &cp
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	cp := *h
	if cp.group != "" {
		name = cp.group + "." + name
	}
	cp.group = name
	return &cp
}
