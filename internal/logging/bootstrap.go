package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Bootstrap builds the process logger: DEBUG and above go to
// <logDir>/<config base name>/<unix time>.log, consoleLevel and above go to stderr.
// The returned cleanup closes the log file.
func Bootstrap(logDir, configFile string, consoleLevel slog.Level) (*slog.Logger, func() error, error) {
	base := strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "deckflow"
	}

	dir := filepath.Join(logDir, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := strconv.FormatInt(time.Now().Unix(), 10) + ".log"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(NewFanout(
		newHandler(f, slog.LevelDebug, "text"),
		newHandler(os.Stderr, consoleLevel, "text"),
	))
	return logger, f.Close, nil
}
