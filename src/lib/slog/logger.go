package slog

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	config *Config
	logger *zap.Logger
	mux    sync.Mutex
)

// Config allows slog to be configured.
type Config struct {
	Disabled bool
	Colorful bool

	// JSON switches the console encoder to the JSON encoder.
	// Production deployments ship logs to a collector which prefers JSON lines.
	JSON bool
}

func isTestBinary() bool {
	return strings.HasSuffix(os.Args[0], ".test") || strings.Contains(os.Args[0], "_test")
}

// getConfig is a helper function to return the current config.
func getConfig() *Config {
	if config == nil {
		config = &Config{Disabled: isTestBinary()}
	}

	return config
}

func encoderConfig(cfg *Config) zapcore.EncoderConfig {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Colorful && !cfg.JSON {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return enc
}

// getLogger returns a configured zap logger instance
func getLogger() *zap.Logger {
	mux.Lock()
	defer mux.Unlock()

	if logger != nil {
		return logger
	}

	cfg := getConfig()

	if cfg.Disabled {
		logger = zap.New(zapcore.NewNopCore())
		return logger
	}

	level := zapcore.InfoLevel

	if os.Getenv("DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	var encoder zapcore.Encoder

	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig(cfg))
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig(cfg))
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	logger = zap.New(core, zap.AddCallerSkip(1))
	return logger
}

// SetConfig sets the configuration for slog.
func SetConfig(conf *Config) {
	mux.Lock()
	defer mux.Unlock()

	config = conf
	logger = nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	return getLogger().Sync()
}

const DL1 = 1 // Debug level 1 is used for general debug messages.
const DL2 = 2 // Debug level 2 is used for more detailed debug messages, such as function calls and variable values.
const DL3 = 3 // Debug level 3 is used for noisy messages, such as request and response logging.

type LogOpts struct {
	Msg     string
	MsgArgs []any
	Payload []zap.Field
	Level   int
}

// Debug logs debug level stuff. The DEBUG environment variable controls
// verbosity: TRUE enables everything, a number enables levels up to it.
func Debug(opts LogOpts) {
	debug := os.Getenv("DEBUG")

	if debug == "" {
		return
	}

	debugLevel, _ := strconv.Atoi(debug)

	if debugLevel > 0 && opts.Level > debugLevel {
		return
	} else if debugLevel == 0 && debug != "TRUE" {
		return
	}

	msg := opts.Msg

	if len(opts.MsgArgs) > 0 {
		msg = fmt.Sprintf(msg, opts.MsgArgs...)
	}

	getLogger().Debug(msg, opts.Payload...)
}

// Info logs info level stuff.
func Info(v ...any) {
	getLogger().Info(fmt.Sprint(v...))
}

// Infof accepts a formatted string and calls Info function.
func Infof(msg string, args ...any) {
	getLogger().Info(fmt.Sprintf(msg, args...))
}

// Infow logs a message with structured fields.
func Infow(msg string, fields ...zap.Field) {
	getLogger().Info(msg, fields...)
}

// Errorf accepts a formatted string and calls Error function.
func Errorf(msg string, args ...any) {
	getLogger().Error(fmt.Sprintf(msg, args...), callerField())
}

// Errorw logs an error message with structured fields.
func Errorw(msg string, fields ...zap.Field) {
	getLogger().Error(msg, append(fields, callerField())...)
}

// callerField points at the function that called one of the exported
// error helpers, two frames up from here.
func callerField() zap.Field {
	_, file, no, ok := runtime.Caller(2)

	if !ok {
		return zap.Skip()
	}

	return zap.String("caller", fmt.Sprintf("%s#%d", file, no))
}
