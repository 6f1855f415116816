package common

import (
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/GrahamDennis/distributions/common/logging"
	"github.com/GrahamDennis/distributions/config"
)

const (
	cfgLogFile  = "log.file"
	cfgLogFmt   = "log.format"
	cfgLogLevel = "log.level"
	// Custom log levels for modules are not supported by flags.
	// Use the config file instead.
)

var (
	loggingFlags = flag.NewFlagSet("", flag.ContinueOnError)

	logFile *os.File
)

func initLogging(cfg *config.LogConfig) error {
	logLevel := logging.LevelWarn
	moduleLevels := map[string]logging.Level{}
	for module, lvlStr := range cfg.Level {
		var lvl logging.Level
		if err := lvl.Set(lvlStr); err != nil {
			return err
		}
		if module == "default" {
			logLevel = lvl
			continue
		}
		moduleLevels[module] = lvl
	}

	var logFmt logging.Format
	if err := logFmt.Set(cfg.Format); err != nil {
		return err
	}

	w, err := openLogWriter(cfg.File)
	if err != nil {
		return err
	}

	if err = logging.Initialize(w, logFmt, logLevel, moduleLevels); err != nil {
		closeLogFile()
		return err
	}
	return nil
}

// openLogWriter opens the log file, keeping the handle so that Cleanup
// can close it, or returns standard error if path is empty.
func openLogWriter(path string) (io.Writer, error) {
	if path == "" {
		return os.Stderr, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	closeLogFile()
	logFile = f
	return f, nil
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	_ = logFile.Sync()
	_ = logFile.Close()
	logFile = nil
}

func initLoggingFlags() {
	logFmt := logging.FmtLogfmt
	logLevel := logging.LevelWarn

	loggingFlags.String(cfgLogFile, "", "log file")
	loggingFlags.Var(&logFmt, cfgLogFmt, "log format")
	loggingFlags.Var(&logLevel, cfgLogLevel, "log level")
}
