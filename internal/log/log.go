package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger
var simpleLogger *zap.SugaredLogger

type Config struct {
	Level       string
	NoCaller    bool
	Development bool
}

// Init builds the process logger. Messages go to stderr so they
// never mix with the counts printed on stdout.
func Init(cfg *Config) {
	var l = new(zapcore.Level)
	if err := l.UnmarshalText([]byte(cfg.Level)); err != nil {
		*l = zapcore.WarnLevel
	}

	core := zapcore.NewCore(getConsoleEncoder(cfg), zapcore.Lock(os.Stderr), l)

	var opts []zap.Option
	opts = append(opts, zap.AddStacktrace(zap.DPanicLevel))
	if !cfg.NoCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	logger = zap.New(core, opts...)
	simpleLogger = logger.Sugar()
}

func getConsoleEncoder(cfg *Config) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if cfg.NoCaller {
		encoderConfig.CallerKey = zapcore.OmitKey
	}

	return zapcore.NewConsoleEncoder(encoderConfig)
}

// LevelFor maps the command-line verbosity switches to a level name.
func LevelFor(verbose, debug bool) string {
	switch {
	case debug:
		return "debug"
	case verbose:
		return "info"
	default:
		return "warn"
	}
}

func NopSugaredLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func Logger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func SugaredLogger() *zap.SugaredLogger {
	if simpleLogger == nil {
		return NopSugaredLogger()
	}
	return simpleLogger
}

func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
