package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger provides self-contained logging for telemetry operations. It has
// no dependency on the rest of the SDK so telemetry failures can always be
// reported somewhere.
//
// Logging layers:
//   - Layer 1: console output (always works, immediate visibility)
//   - Layer 2: metrics emission (once the registry is initialized)
type Logger struct {
	level       string
	debug       bool
	serviceName string
	format      string
	output      io.Writer
	mu          sync.RWMutex

	// Rate limiting prevents log flooding during sustained failures.
	errorLimiter *RateLimiter

	metricsEnabled bool
}

var (
	loggerSingleton *Logger
	loggerOnce      sync.Once
)

// NewLogger creates the telemetry logger. Configuration priority:
//  1. Environment variables (QSIM_LOG_LEVEL, QSIM_DEBUG, QSIM_LOG_FORMAT)
//  2. Auto-detection (JSON output under Kubernetes)
//  3. Defaults
func NewLogger(serviceName string) *Logger {
	loggerOnce.Do(func() {
		loggerSingleton = createLogger(serviceName)
	})
	return loggerSingleton
}

func createLogger(serviceName string) *Logger {
	level := os.Getenv("QSIM_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}

	debug := os.Getenv("QSIM_DEBUG") == "true" ||
		strings.ToUpper(level) == "DEBUG"

	// JSON in Kubernetes for log aggregation, text for local dev.
	format := "text"
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		format = "json"
	}
	if envFormat := os.Getenv("QSIM_LOG_FORMAT"); envFormat != "" {
		format = envFormat
	}

	if serviceName == "" {
		serviceName = "qsim"
	}

	return &Logger{
		level:        strings.ToUpper(level),
		debug:        debug,
		serviceName:  serviceName,
		format:       format,
		output:       os.Stdout,
		errorLimiter: NewRateLimiter(1 * time.Second),
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

// Error logs error messages with rate limiting.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	if l.errorLimiter != nil && !l.errorLimiter.Allow() {
		return
	}
	l.log("ERROR", msg, fields)
}

// Debug logs debug messages when debug mode is enabled.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	if !l.debug {
		return
	}
	l.log("DEBUG", msg, fields)
}

func (l *Logger) log(level, msg string, fields map[string]interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.shouldLog(level) {
		return
	}

	timestamp := time.Now().Format(time.RFC3339)

	if l.format == "json" {
		l.logJSON(timestamp, level, msg, fields)
	} else {
		l.logText(timestamp, level, msg, fields)
	}

	l.emitLogMetric(level)
}

func (l *Logger) logJSON(timestamp, level, msg string, fields map[string]interface{}) {
	logEntry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level,
		"service":   l.serviceName,
		"component": "telemetry",
		"message":   msg,
	}

	for k, v := range fields {
		// Core fields win over caller-supplied ones.
		if k != "timestamp" && k != "level" && k != "service" && k != "component" && k != "message" {
			logEntry[k] = v
		}
	}

	if data, err := json.Marshal(logEntry); err == nil {
		fmt.Fprintln(l.output, string(data))
	}
}

func (l *Logger) logText(timestamp, level, msg string, fields map[string]interface{}) {
	var fieldStr strings.Builder
	if len(fields) > 0 {
		fieldStr.WriteString(" ")
		// Put the fields operators scan for first.
		if endpoint, ok := fields["endpoint"]; ok {
			fieldStr.WriteString(fmt.Sprintf("endpoint=%v ", endpoint))
			delete(fields, "endpoint")
		}
		if err, ok := fields["error"]; ok {
			fieldStr.WriteString(fmt.Sprintf("error=%q ", fmt.Sprintf("%v", err)))
			delete(fields, "error")
		}
		if action, ok := fields["action"]; ok {
			fieldStr.WriteString(fmt.Sprintf("action=%q ", fmt.Sprintf("%v", action)))
			delete(fields, "action")
		}
		for k, v := range fields {
			fieldStr.WriteString(fmt.Sprintf("%s=%v ", k, v))
		}
	}

	fmt.Fprintf(l.output, "%s [%s] [telemetry:%s] %s%s\n",
		timestamp, level, l.serviceName, msg, fieldStr.String())
}

func (l *Logger) shouldLog(level string) bool {
	levels := map[string]int{
		"DEBUG": 0,
		"INFO":  1,
		"WARN":  2,
		"ERROR": 3,
	}

	currentLevel, ok1 := levels[l.level]
	messageLevel, ok2 := levels[level]
	if !ok1 || !ok2 {
		return true
	}

	return messageLevel >= currentLevel
}

// SetLevel dynamically updates the log level.
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = strings.ToUpper(level)
	l.debug = l.level == "DEBUG"
}

// SetFormat dynamically updates the log format ("text" or "json").
func (l *Logger) SetFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

// SetOutput changes the output writer (useful for testing).
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// emitLogMetric counts logging operations through the pipeline itself.
// Only low-cardinality properties are attached.
func (l *Logger) emitLogMetric(level string) {
	if !l.metricsEnabled || globalRegistry.Load() == nil {
		return
	}

	Log("telemetry.log.operations", 1, map[string]any{
		"level":     level,
		"component": "telemetry",
	}, KindCounter)
}

// EnableMetrics is called once the telemetry registry is initialized.
func (l *Logger) EnableMetrics() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metricsEnabled = true
}

// GetLogger returns the global telemetry logger instance.
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		serviceName := "qsim"
		if r, ok := globalRegistry.Load().(*Registry); ok && r != nil && r.config.ServiceName != "" {
			serviceName = r.config.ServiceName
		}
		loggerSingleton = createLogger(serviceName)
	})
	return loggerSingleton
}
