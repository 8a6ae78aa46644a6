package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// Logger writes to STDOUT, or to a dated file when logFilePath is set.
func Logger(logFilePath, level string) *lecho.Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = log.INFO
	}
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(lvl),
		lecho.WithTimestamp(),
	)
	if logFilePath != "" {
		file, err := GetLoggingFile(logFilePath, time.Now())
		if err != nil {
			logger.Errorf("failed to create logging file: %v", err)
			return logger
		}
		logger.SetOutput(file)
	}

	return logger
}

// GetLoggingFile opens (or creates) the log file for the day of now.
// "logs/surau.log" becomes "logs/surau-2024-01-31.log".
func GetLoggingFile(path string, now time.Time) (*os.File, error) {
	extension := filepath.Ext(path)
	stamp := now.Format("-2006-01-02")
	if extension != "" {
		path = strings.TrimSuffix(path, extension) + stamp + extension
	} else {
		path = path + stamp + ".log"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}
