// Package xlogger builds the slog loggers used by the jsrewrite commands.
package xlogger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config selects the level and output format of a logger.
type Config struct {
	Level      string `yaml:"level" json:"level" toml:"level" default:"info"`
	LogType    string `yaml:"type" json:"type" toml:"type" default:"text"`
	AddSource  bool   `yaml:"add_source" json:"add_source" toml:"add_source"`
	SourcePath string `yaml:"source_path" json:"source_path" toml:"source_path"`
}

// New returns a logger writing to w. Rewritten source goes to stdout, so
// commands pass stderr here.
func New(conf Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   conf.AddSource,
		Level:       getLogLevel(conf.Level),
		ReplaceAttr: replaceAttr(conf),
	}

	return slog.New(getHandler(conf.LogType, w, opts))
}

// Validate reports an unknown level or log type.
func (c Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Level)
	}

	switch strings.ToLower(c.LogType) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log type: %s", c.LogType)
	}

	return nil
}

func getLogLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getHandler(logType string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(logType) {
	case "json":
		return slog.NewJSONHandler(w, opts)

	default:
		return slog.NewTextHandler(w, opts)
	}
}

func replaceAttr(conf Config) func(groups []string, a slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		if attr.Key != slog.SourceKey {
			return attr
		}

		source, ok := attr.Value.Any().(*slog.Source)
		if !ok || source == nil {
			return attr
		}

		file := source.File
		if len(conf.SourcePath) > 0 {
			if strings.HasPrefix(file, conf.SourcePath) {
				file = strings.TrimPrefix(file, conf.SourcePath)
			} else if index := strings.Index(file, conf.SourcePath); index > 0 {
				file = file[index+len(conf.SourcePath):]
			}
		}

		return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", file, source.Line))
	}
}
