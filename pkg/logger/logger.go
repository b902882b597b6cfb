package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	log = newLogger("development", os.Stderr)
}

// Init configures the global logger for env. Development gets a console
// writer at debug level; everything else logs JSON at info level.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(env, os.Stderr)
}

// SetOutput redirects logs, mainly for tests.
func SetOutput(env string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(env, w)
}

func newLogger(env string, w io.Writer) zerolog.Logger {
	env = strings.ToLower(strings.TrimSpace(env))

	var out io.Writer = w
	level := zerolog.InfoLevel
	switch env {
	case "", "development", "dev", "local":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	case "test":
		level = zerolog.WarnLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) {
	emit(get().Debug(), msg, args)
}

func Info(msg string, args ...any) {
	emit(get().Info(), msg, args)
}

func Warn(msg string, args ...any) {
	emit(get().Warn(), msg, args)
}

func Error(msg string, args ...any) {
	emit(get().Error(), msg, args)
}

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	emit(get().Fatal(), msg, args)
}

// emit attaches args as fields. Args are read as key/value pairs; a value
// without a string key is logged under its position.
func emit(evt *zerolog.Event, msg string, args []any) {
	if evt == nil {
		return
	}
	for i := 0; i < len(args); i++ {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			if err, isErr := args[i].(error); isErr {
				evt = evt.AnErr("error", err)
				continue
			}
			evt = evt.Interface(fmt.Sprintf("arg%d", i), args[i])
			continue
		}
		val := args[i+1]
		i++
		switch v := val.(type) {
		case error:
			evt = evt.AnErr(key, v)
		case []string:
			evt = evt.Strs(key, v)
		case time.Duration:
			evt = evt.Dur(key, v)
		default:
			evt = evt.Interface(key, v)
		}
	}
	evt.Msg(msg)
}
