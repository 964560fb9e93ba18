package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const envDevelopment = "development"

// Options is the logging part of the storefront config.
type Options struct {
	Env        string
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	Console    bool
}

var (
	once   sync.Once
	logger zerolog.Logger
)

func InitLogger(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.DurationFieldUnit = time.Microsecond
		zerolog.ErrorFieldName = "error"
		zerolog.ErrorStackFieldName = "stack-trace"
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.LevelFieldName = "level"
		zerolog.MessageFieldName = "message"
		zerolog.TimestampFieldName = "timestamp"

		var stdout io.Writer = os.Stdout
		if opts.Console {
			stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
		}
		writers := []io.Writer{stdout}
		if opts.Path != "" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   opts.Path,
				MaxSize:    opts.MaxSizeMB,
				MaxBackups: opts.MaxBackups,
				Compress:   true,
			})
		}

		logger = newLogger(zerolog.MultiLevelWriter(writers...), opts)
		logger.Info().
			Str(KeyTag, "InitLogger").
			Str(KeyProcess, "InitLogger").
			Str("level", logger.GetLevel().String()).
			Msg("finish initiating logging")
	})
	return logger
}

func newLogger(w io.Writer, opts Options) zerolog.Logger {
	return zerolog.New(w).
		Level(level(opts)).
		Hook(AttachTraceIdFromContext()).
		With().
		Timestamp().
		Caller().
		Stack().
		Str("env", opts.Env).
		Int("pid", os.Getpid()).
		Logger()
}

// level is the configured level, else trace in development and info
// everywhere else.
func level(opts Options) zerolog.Level {
	if opts.Level != "" {
		if lvl, err := zerolog.ParseLevel(opts.Level); err == nil {
			return lvl
		}
	}
	if opts.Env == envDevelopment {
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}
