// Package log is a minimal leveled key-value logger for the long-running
// daemon paths. The TUI stays silent; only background components log.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var (
	mu       sync.Mutex
	logger   = stdlog.New(os.Stderr, "", stdlog.LstdFlags)
	minLevel = LevelInfo
)

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	logger = stdlog.New(w, "", stdlog.LstdFlags)
}

// Debug logs at debug level with optional key-value pairs.
func Debug(msg string, kv ...any) {
	emit(LevelDebug, "DEBUG", msg, kv...)
}

// Info logs at info level with optional key-value pairs.
func Info(msg string, kv ...any) {
	emit(LevelInfo, "INFO", msg, kv...)
}

// Error logs an error with optional key-value pairs.
func Error(msg string, err error, kv ...any) {
	emit(LevelError, "ERROR", msg, append([]any{"err", err}, kv...)...)
}

func emit(level Level, tag, msg string, kv ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}
	line := "[" + tag + "] " + msg
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		line += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	logger.Println(line)
}
