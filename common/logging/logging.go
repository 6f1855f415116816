// Package logging implements support for structured logging.
//
// Loggers are leveled and scoped to a module. They can be obtained at any
// point, including from package level variables before Initialize is
// called; such early loggers are redirected to the configured backend once
// it is initialized.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/pflag"
)

var (
	backend = logBackend{
		baseLogger:   log.NewNopLogger(),
		defaultLevel: LevelError,
	}

	_ pflag.Value = (*Level)(nil)
	_ pflag.Value = (*Format)(nil)
)

// Format selects how log lines are encoded.
type Format uint

const (
	// FmtLogfmt writes key=value lines.
	FmtLogfmt Format = iota
	// FmtJSON writes one JSON object per line.
	FmtJSON
)

var formatNames = [...]string{
	FmtLogfmt: "logfmt",
	FmtJSON:   "JSON",
}

func (f *Format) String() string {
	if int(*f) >= len(formatNames) {
		panic("logging: unsupported format")
	}
	return formatNames[*f]
}

// Set parses a format name, ignoring case.
func (f *Format) Set(s string) error {
	for ix, name := range formatNames {
		if strings.EqualFold(name, s) {
			*f = Format(ix)
			return nil
		}
	}
	return fmt.Errorf("logging: invalid log format: '%s'", s)
}

// Type lists the accepted format names, for flag help output.
func (f *Format) Type() string {
	return "[" + strings.Join(formatNames[:], ",") + "]"
}

// Level is the minimum severity a logger emits.
type Level uint

const (
	// LevelDebug emits everything, including per-construction detail.
	LevelDebug Level = iota
	// LevelInfo emits progress messages from the commands.
	LevelInfo
	// LevelWarn emits unreliable-result warnings and failures.
	LevelWarn
	// LevelError emits failures only.
	LevelError
)

var levels = [...]struct {
	name   string
	option func() level.Option
}{
	LevelDebug: {"DEBUG", level.AllowDebug},
	LevelInfo:  {"INFO", level.AllowInfo},
	LevelWarn:  {"WARN", level.AllowWarn},
	LevelError: {"ERROR", level.AllowError},
}

func (l Level) toOption() level.Option {
	if int(l) >= len(levels) {
		panic("logging: unsupported log level")
	}
	return levels[l].option()
}

func (l *Level) String() string {
	if int(*l) >= len(levels) {
		panic("logging: unsupported log level")
	}
	return levels[*l].name
}

// Set parses a level name, ignoring case.
func (l *Level) Set(s string) error {
	for ix, lvl := range levels {
		if strings.EqualFold(lvl.name, s) {
			*l = Level(ix)
			return nil
		}
	}
	return fmt.Errorf("logging: invalid log level: '%s'", s)
}

// Type lists the accepted level names, for flag help output.
func (l *Level) Type() string {
	names := make([]string, 0, len(levels))
	for _, lvl := range levels {
		names = append(names, lvl.name)
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Logger emits leveled lines tagged with its module.
type Logger struct {
	logger log.Logger
	level  Level
	module string
}

func (l *Logger) log(lvl Level, leveled func(log.Logger) log.Logger, msg string, keyvals []interface{}) {
	if l.level > lvl {
		return
	}
	_ = leveled(l.logger).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

// Debug logs msg and the key/value pairs at LevelDebug.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.log(LevelDebug, level.Debug, msg, keyvals)
}

// Info logs msg and the key/value pairs at LevelInfo.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.log(LevelInfo, level.Info, msg, keyvals)
}

// Warn logs msg and the key/value pairs at LevelWarn.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.log(LevelWarn, level.Warn, msg, keyvals)
}

// Error logs msg and the key/value pairs at LevelError.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.log(LevelError, level.Error, msg, keyvals)
}

// With returns a logger that adds keyvals to every line, keeping the
// module and level of l.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{
		logger: log.With(l.logger, keyvals...),
		level:  l.level,
		module: l.module,
	}
}

// GetLevel returns the default level set by Initialize.
func GetLevel() Level {
	backend.Lock()
	defer backend.Unlock()

	return backend.defaultLevel
}

// GetLogger returns a logger for module. It may be called before
// Initialize, typically from a package level variable.
func GetLogger(module string) *Logger {
	return backend.getLogger(module)
}

// Initialize directs all loggers to w in the given format. A module's
// level is that of its longest matching prefix in moduleLvls, or
// defaultLvl. A nil w discards all output. It can only be called once.
func Initialize(w io.Writer, format Format, defaultLvl Level, moduleLvls map[string]Level) error {
	backend.Lock()
	defer backend.Unlock()

	if backend.initialized {
		return fmt.Errorf("logging: already initialized")
	}

	var logger log.Logger = backend.baseLogger
	if w != nil {
		w = log.NewSyncWriter(w)
		switch format {
		case FmtLogfmt:
			logger = log.NewLogfmtLogger(w)
		case FmtJSON:
			logger = log.NewJSONLogger(w)
		default:
			return fmt.Errorf("logging: unsupported log format: %v", format)
		}
	}

	logger = level.NewFilter(logger, defaultLvl.toOption())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	backend.baseLogger = logger
	backend.moduleLevels = moduleLvls
	backend.defaultLevel = defaultLvl
	backend.initialized = true

	for _, l := range backend.earlyLoggers {
		l.swapLogger.Swap(backend.baseLogger)
		backend.setupLogLevelLocked(l.logger)
	}
	backend.earlyLoggers = nil

	return nil
}

type earlyLogger struct {
	swapLogger *log.SwapLogger
	logger     *Logger
}

type logBackend struct {
	sync.Mutex

	baseLogger   log.Logger
	earlyLoggers []*earlyLogger
	defaultLevel Level
	moduleLevels map[string]Level

	initialized bool
}

func (b *logBackend) setupLogLevelLocked(l *Logger) {
	// Reverse lexical order visits longer prefixes of the same module first.
	modulePrefixes := make([]string, 0, len(b.moduleLevels))
	for k := range b.moduleLevels {
		modulePrefixes = append(modulePrefixes, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(modulePrefixes)))

	lvl := b.defaultLevel
	for _, k := range modulePrefixes {
		if strings.HasPrefix(l.module, k) {
			lvl = b.moduleLevels[k]
			break
		}
	}

	l.level = lvl
}

func (b *logBackend) getLogger(module string) *Logger {
	// log.DefaultCaller depth plus Logger.Debug et al. and Logger.log.
	const callerUnwind = 5

	b.Lock()
	defer b.Unlock()

	logger := b.baseLogger
	if !b.initialized {
		logger = &log.SwapLogger{}
	}

	var keyvals []interface{}
	if module != "" {
		keyvals = append(keyvals, "module", module)
	}
	keyvals = append(keyvals, "caller", log.Caller(callerUnwind))
	l := &Logger{
		logger: log.WithPrefix(logger, keyvals...),
		module: module,
	}
	b.setupLogLevelLocked(l)

	if !b.initialized {
		sLog := logger.(*log.SwapLogger)
		b.earlyLoggers = append(b.earlyLoggers, &earlyLogger{swapLogger: sLog, logger: l})
	}

	return l
}
