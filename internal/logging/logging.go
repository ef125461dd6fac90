// Package logging sets up file-backed logging for the console.
// The TUI owns stdout and stderr, so log output always goes to a file
// under the log directory, one file per day.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem. Loggers carry their category so a single
// file stays grep-able.
type Category string

const (
	CategoryBoot      Category = "boot"      // startup, config, shutdown
	CategoryTransport Category = "transport" // websocket client
	CategoryServer    Category = "server"    // mock server
	CategoryReplay    Category = "replay"    // snapshot file replay
	CategoryUI        Category = "ui"        // app model, pages
	CategoryForms     Category = "forms"     // form submission
	CategoryPlugins   Category = "plugins"   // plugin elements
)

// Open creates the log directory if needed and returns the root logger
// plus a flush function for shutdown. Verbose lowers the level to debug.
func Open(dir string, verbose bool) (*zap.Logger, func(), error) {
	if dir == "" {
		return nil, nil, fmt.Errorf("log directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("console_%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(file), level)

	log := zap.New(core)
	flush := func() {
		_ = log.Sync()
		_ = file.Close()
	}
	return log, flush, nil
}

// For returns a child logger tagged with the category.
func For(log *zap.Logger, c Category) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.Named(string(c))
}

// DefaultDir is where logs go when the config does not say otherwise.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".hathora-console", "logs")
	}
	return filepath.Join(home, ".hathora-console", "logs")
}
