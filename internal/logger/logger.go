// Package logger holds the process-wide structured logger. Everything goes
// to a rotated file under the config directory; debug mode also echoes to
// stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/slotsheet/internal/constants"
)

const (
	logDirName    = "logs"
	maxFileSizeMB = 5
	maxFiles      = 5
	maxAgeDays    = 30
)

// Logger is nil until Init succeeds
var Logger *log.Logger

var path string

type Config struct {
	Debug     bool
	ConfigDir string
	// Echo receives a copy of every line in debug mode, stderr when nil
	Echo io.Writer
}

// Init opens the rotated log file and installs the global logger
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, logDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	path = filepath.Join(dir, constants.AppName+".log")

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileSizeMB,
		MaxBackups: maxFiles,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          constants.AppName,
		Level:           log.InfoLevel,
	}
	if cfg.Debug {
		echo := cfg.Echo
		if echo == nil {
			echo = os.Stderr
		}
		out = io.MultiWriter(echo, out)
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

// Path returns the active log file, "" before Init
func Path() string {
	return path
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs msg and exits with status 1, even without a logger
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
