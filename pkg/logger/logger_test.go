package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	levels := []LogLevel{
		LevelCritical,
		LevelError,
		LevelWarn,
		LevelSuccess,
		LevelInfo,
		LevelDebug,
		LevelSystem,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			color := level.Color()
			if color == "" {
				t.Error("Expected color to be non-empty")
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	// Clean up logs directory before test
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	defer l.Close()

	// Check that logs directory was created
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	// Check that log files were created
	combinedLog := filepath.Join(logsDir, "combined.log")
	errorLog := filepath.Join(logsDir, "error.log")

	if _, err := os.Stat(combinedLog); os.IsNotExist(err) {
		t.Error("Expected combined.log to be created")
	}

	if _, err := os.Stat(errorLog); os.IsNotExist(err) {
		t.Error("Expected error.log to be created")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}

func TestFileSinkWritesModuleField(t *testing.T) {
	os.RemoveAll(filepath.Join(".", "logs"))

	l := NewLogger("", "")
	l.Info("file sink probe", "SINK")
	l.Error("error sink probe", "SINK")
	l.Close()

	combined, err := os.ReadFile(filepath.Join("logs", "combined.log"))
	if err != nil {
		t.Fatalf("reading combined.log: %v", err)
	}
	if !strings.Contains(string(combined), "module=SINK") || !strings.Contains(string(combined), "file sink probe") {
		t.Errorf("combined.log missing entry, got %q", combined)
	}

	errorsLog, err := os.ReadFile(filepath.Join("logs", "error.log"))
	if err != nil {
		t.Fatalf("reading error.log: %v", err)
	}
	if strings.Contains(string(errorsLog), "file sink probe") {
		t.Error("error.log should not contain INFO entries")
	}
	if !strings.Contains(string(errorsLog), "error sink probe") {
		t.Errorf("error.log missing error entry, got %q", errorsLog)
	}
}

func TestDebugToggle(t *testing.T) {
	os.RemoveAll(filepath.Join(".", "logs"))

	l := NewLogger("", "")
	l.SetDebug(false)
	if l.DebugEnabled() {
		t.Fatal("DebugEnabled() = true after SetDebug(false)")
	}
	l.Debug("hidden debug line", "TOGGLE")
	l.SetDebug(true)
	l.Debug("visible debug line", "TOGGLE")
	l.Close()

	combined, _ := os.ReadFile(filepath.Join("logs", "combined.log"))
	if strings.Contains(string(combined), "hidden debug line") {
		t.Error("debug line written while debug disabled")
	}
	if !strings.Contains(string(combined), "visible debug line") {
		t.Error("debug line missing while debug enabled")
	}
}

func TestWriter(t *testing.T) {
	os.RemoveAll(filepath.Join(".", "logs"))

	l := NewLogger("", "")
	n, err := l.Writer("GIN").Write([]byte("GET /health 200\n"))
	l.Close()

	if err != nil || n != len("GET /health 200\n") {
		t.Errorf("Write() = (%d, %v)", n, err)
	}

	combined, _ := os.ReadFile(filepath.Join("logs", "combined.log"))
	if !strings.Contains(string(combined), "module=GIN") {
		t.Errorf("writer output missing, got %q", combined)
	}
}
