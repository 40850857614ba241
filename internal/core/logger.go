package core

import (
	"log"
	"sync"
)

var (
	// Lazy-load and ensure a single init
	loggerOnce      sync.Once
	loggerSingleton *Logger
)

type VerboseLevel int

const (
	VerboseOff VerboseLevel = iota
	VerboseInfo
	VerboseDebug
	VerboseTrace
)

func CurrentLogger() *Logger {
	loggerOnce.Do(func() {
		loggerSingleton = NewLogger()
	})
	return loggerSingleton
}

type Logger struct {
	verbose VerboseLevel
}

func NewLogger() *Logger {
	return &Logger{
		verbose: VerboseOff,
	}
}

// SetVerboseLevel overrides the default verbose level
func (l *Logger) SetVerboseLevel(level VerboseLevel) *Logger {
	l.verbose = level
	return l
}

// Messages carry the same severity prefixes the CLI diagnostics use, so an
// export run reads uniformly whether a message comes from the parser summary
// or from the walker.
func prefixed(prefix string, v []any) []any {
	return append([]any{prefix}, v...)
}

func (l *Logger) Fatal(v ...any) {
	log.Fatalln(prefixed("[FATAL]", v)...)
}
func (l *Logger) Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

func (l *Logger) Warn(v ...any) {
	log.Println(prefixed("[WARNING]", v)...)
}
func (l *Logger) Warnf(format string, v ...any) {
	log.Printf("[WARNING] "+format, v...)
}

func (l *Logger) Info(v ...any) {
	if l.verbose >= VerboseInfo {
		log.Println(prefixed("[INFO]", v)...)
	}
}
func (l *Logger) Infof(format string, v ...any) {
	if l.verbose >= VerboseInfo {
		log.Printf("[INFO] "+format, v...)
	}
}

func (l *Logger) Debug(v ...any) {
	if l.verbose >= VerboseDebug {
		log.Println(prefixed("[DEBUG]", v)...)
	}
}
func (l *Logger) Debugf(format string, v ...any) {
	if l.verbose >= VerboseDebug {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func (l *Logger) Trace(v ...any) {
	if l.verbose >= VerboseTrace {
		log.Println(prefixed("[TRACE]", v)...)
	}
}
func (l *Logger) Tracef(format string, v ...any) {
	if l.verbose >= VerboseTrace {
		log.Printf("[TRACE] "+format, v...)
	}
}
