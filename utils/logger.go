package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *log.Logger
	// WarningLogger logs recoverable problems
	WarningLogger *log.Logger
	// ErrorLogger logs error messages
	ErrorLogger *log.Logger
	// DebugLogger logs debug messages
	DebugLogger *log.Logger

	logsDir = "logs"
)

// LogLevels lists the per-level log files written under the logs directory
var LogLevels = []string{"info", "warning", "error", "debug"}

// InitLogger opens one log file per level for today inside dir
func InitLogger(dir string) error {
	if dir != "" {
		logsDir = dir
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	files := make(map[string]*os.File, len(LogLevels))
	for _, level := range LogLevels {
		f, err := os.OpenFile(
			LogFilePath(level, time.Now()),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return fmt.Errorf("failed to open %s log file: %w", level, err)
		}
		files[level] = f
	}

	InfoLogger = log.New(files["info"], "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLogger = log.New(files["warning"], "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(files["error"], "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(files["debug"], "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// LogsDir returns the directory the log files are written to
func LogsDir() string {
	return logsDir
}

// LogFilePath returns the file used for level on the given day
func LogFilePath(level string, day time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", level, day.Format("2006-01-02")))
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogWarning logs a warning message
func LogWarning(format string, v ...interface{}) {
	if WarningLogger != nil {
		WarningLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
