// Package logger 基于log/slog的结构化日志封装
//
// release模式输出JSON（便于ELK/Loki采集），其他模式输出文本。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xiebiao/bookclub/pkg/tracing"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logger 包装slog.Logger
type Logger struct {
	*slog.Logger
}

// Config 日志配置
type Config struct {
	Writer    io.Writer
	Format    string // json | text，为空时按Mode推断
	Mode      string // debug | release | test
	Level     slog.Level
	AddSource bool
}

// New 创建日志器
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Format == "" {
		if cfg.Mode == "release" {
			cfg.Format = FormatJSON
		} else {
			cfg.Format = FormatText
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Nop 丢弃所有输出（单元测试使用）
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel 字符串转slog.Level，无法识别时为Info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext 附加当前Span的trace_id，便于日志与链路关联
func (l *Logger) WithContext(ctx context.Context) *Logger {
	traceID := tracing.ExtractTraceID(ctx)
	if traceID == "" {
		return l
	}
	return &Logger{Logger: l.Logger.With(slog.String("trace_id", traceID))}
}

// With 返回带固定字段的子日志器
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
