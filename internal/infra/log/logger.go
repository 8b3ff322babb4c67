package log

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	fileLog    atomic.Pointer[zap.Logger]
	consoleLog atomic.Pointer[zap.Logger] // SUCCESS and ERROR lines only
	initMu     sync.Mutex
)

func init() {
	fileLog.Store(zap.NewNop())
	consoleLog.Store(zap.NewNop())
}

// Logger returns the file logger. It stays a no-op until Init is called so that
// packages can log freely from tests and one-shot CLI commands.
func Logger() *zap.Logger {
	return fileLog.Load()
}

func consoleLogger() *zap.Logger {
	return consoleLog.Load()
}

// Options controls where and how much the bot logs.
type Options struct {
	Dir     string // directory for app.log; empty disables the file core
	Level   string // debug, info, warn, error
	Console bool   // print SUCCESS/ERROR lines to stderr
}

// Init builds the file and console loggers. Safe to call more than once; the
// last call wins.
func Init(opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()

	level := parseLevel(opts.Level)

	fileLogger := zap.NewNop()
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}

		fileConfig := zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
			EncodeDuration: zapcore.SecondsDurationEncoder,
		}

		fileCore := zapcore.NewCore(
			&lineEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)},
			getLogFileWriter(filepath.Join(opts.Dir, "app.log")),
			level,
		)
		fileLogger = zap.New(fileCore)
	}

	console := zap.NewNop()
	if opts.Console {
		consoleConfig := zap.NewDevelopmentConfig()
		consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
		consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleConfig.EncoderConfig.EncodeCaller = nil
		consoleConfig.Development = false
		consoleConfig.DisableStacktrace = true
		consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

		var err error
		console, err = consoleConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to build console logger: %w", err)
		}
	}

	fileLog.Store(fileLogger)
	consoleLog.Store(console)
	return nil
}

// Sync flushes both loggers.
func Sync() {
	_ = Logger().Sync()
	_ = consoleLogger().Sync()
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.DebugLevel
	}
	return lvl
}

// GenerateRequestID returns a short random id used to correlate log lines of one request.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RequestLogger returns the file logger bound to a request id.
func RequestLogger(requestID string) *zap.Logger {
	return Logger().With(zap.String("request_id", requestID))
}

// LogRequest records an outbound HTTP request (file only).
func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	}, fields...)
	Logger().Info("HTTP request", allFields...)
}

// LogResponse records an upstream response. Non-2xx responses also reach the console.
func LogResponse(requestID string, statusCode int, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if statusCode >= 200 && statusCode < 300 {
		Logger().Info("HTTP response", allFields...)
		return
	}

	Logger().Error("HTTP response", allFields...)
	if endpoint := fieldString(fields, "endpoint"); endpoint != "" {
		consoleLogger().Error(fmt.Sprintf("✗ HTTP request failed [%d] %s", statusCode, endpoint))
	} else {
		consoleLogger().Error(fmt.Sprintf("✗ HTTP request failed [%d]", statusCode))
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset)
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

func LogInfo(message string, fields ...zap.Field) {
	Logger().Info(message, fields...)
}

// LogSuccess writes to the file and prints a check-marked line to the console.
func LogSuccess(message string, fields ...zap.Field) {
	Logger().Info(message, fields...)

	if durationMs := extractDuration(fields); durationMs > 0 {
		consoleLogger().Info(fmt.Sprintf("✓ %s (%dms)", message, durationMs))
	} else {
		consoleLogger().Info("✓ " + message)
	}
}

// LogError writes to the file and prints a cross-marked line to the console.
func LogError(message string, fields ...zap.Field) {
	Logger().Error(message, fields...)

	if durationMs := extractDuration(fields); durationMs > 0 {
		consoleLogger().Error(fmt.Sprintf("✗ %s (%dms)", message, durationMs))
	} else {
		consoleLogger().Error("✗ " + message)
	}
}

func LogWarn(message string, fields ...zap.Field) {
	Logger().Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger().Debug(message, fields...)
}

func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

func fieldString(fields []zap.Field, key string) string {
	for _, field := range fields {
		if field.Key == key && field.Type == zapcore.StringType {
			return field.String
		}
	}
	return ""
}

// MaxLogFileSize caps app.log; the file is truncated once it grows past this.
const MaxLogFileSize = 50 * 1024 * 1024

type cappedFileWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

func (w *cappedFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if info, err := w.file.Stat(); err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
		w.file = f
	}

	return w.file.Write(p)
}

func (w *cappedFileWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func getLogFileWriter(path string) zapcore.WriteSyncer {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return zapcore.AddSync(os.Stderr)
	}
	return &cappedFileWriter{file: file, path: path}
}

var lineBufferPool = buffer.NewPool()

// lineEncoder writes "time     LEVEL message\t{json fields}" lines.
type lineEncoder struct {
	zapcore.Encoder
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	return &lineEncoder{Encoder: e.Encoder.Clone()}
}

func (e *lineEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := lineBufferPool.Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}
		if jsonData, err := json.Marshal(enc.Fields); err == nil {
			buf.AppendString("\t")
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
