// Package minilog extends Go's logging functionality to allow for
// multiple loggers, each one with its own logging level. Call AddLogger
// to set up each desired logger, then use the package-level functions
// to send messages to every defined logger at or above its level.
package minilog

import (
	golog "log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Log levels, lowest to highest severity.
const (
	DEBUG = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelTag = map[int]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var levelColor = map[int]*color.Color{
	DEBUG: color.New(color.FgBlue),
	INFO:  color.New(color.FgGreen),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed),
	FATAL: color.New(color.FgRed, color.Bold),
}

type minilogger struct {
	*golog.Logger
	level int
	color bool
}

func (l *minilogger) log(level int, format string, arg ...interface{}) {
	tag := levelTag[level]
	if l.color {
		tag = levelColor[level].Sprint(tag)
	}
	l.Logger.Printf("["+tag+"] "+format, arg...)
}

var (
	loggers = make(map[string]*minilogger)
	mu      sync.RWMutex
)

// AddLogger registers a named logger writing to output, filtering
// anything below level. color enables ANSI level tags (disable for
// file sinks).
func AddLogger(name string, output *os.File, level int, useColor bool) {
	mu.Lock()
	defer mu.Unlock()
	loggers[name] = &minilogger{
		Logger: golog.New(output, "", golog.LstdFlags),
		level:  level,
		color:  useColor,
	}
}

// DelLogger removes a previously registered logger.
func DelLogger(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(loggers, name)
}

// LevelInt parses a log level name ("debug", "info", "warn", "error",
// "fatal") as used by the -loglevel CLI flag.
func LevelInt(s string) int {
	switch s {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

func dispatch(level int, format string, arg ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		if l.level <= level {
			l.log(level, format, arg...)
		}
	}
}

func Debug(format string, arg ...interface{}) { dispatch(DEBUG, format, arg...) }
func Info(format string, arg ...interface{})  { dispatch(INFO, format, arg...) }
func Warn(format string, arg ...interface{})  { dispatch(WARN, format, arg...) }
func Error(format string, arg ...interface{}) { dispatch(ERROR, format, arg...) }

func Fatal(format string, arg ...interface{}) {
	dispatch(FATAL, format, arg...)
	os.Exit(1)
}
