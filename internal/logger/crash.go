package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash logs relative to the config directory
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10

	// CrashExitCode is the process exit code after a recovered panic
	CrashExitCode = 2
)

// CrashContext stores context for crash logging.
type CrashContext struct {
	mu        sync.RWMutex
	lastInput string
	command   string
	version   string
	runID     string
	basePath  string
}

// globalContext is the singleton crash context.
var globalContext = &CrashContext{}

// Swapped in tests.
var (
	crashFs     afero.Fs  = afero.NewOsFs()
	crashOutput io.Writer = os.Stderr
	exitFunc              = os.Exit
)

// SetBasePath sets the base path for crash logs (typically ~/.contactbook).
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetRunID records the run id shared with the process logger.
func SetRunID(id string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.runID = id
}

// SetLastInput sets the last user input (the command line) for crash context.
func SetLastInput(input string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lastInput = truncateForLog(strings.TrimSpace(input), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	RunID      string    `json:"run_id,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastInput  string    `json:"last_input,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		reportPanic(r)
		exitFunc(CrashExitCode)
	}
}

func reportPanic(r any) {
	log := createCrashLog(r)
	path := getCrashLogPath(log.Timestamp)
	if err := writeCrashLog(log); err != nil {
		fmt.Fprintf(crashOutput, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(crashOutput, "[CRASH] Panic: %v\n%s\n", r, log.StackTrace)
		path = "(not written)"
	}

	body := fmt.Sprintf("A crash log has been saved to:\n  %s", path)
	if log.RunID != "" {
		body += fmt.Sprintf("\nRun ID: %s", log.RunID)
	}
	fmt.Fprintln(crashOutput)
	fmt.Fprintln(crashOutput, ui.RenderErrorPanel("contactbook encountered an unexpected error", body))
	fmt.Fprintln(crashOutput)
}

// createCrashLog creates a CrashLog from a panic value.
func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		RunID:      globalContext.runID,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  globalContext.lastInput,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashLog writes a crash log to disk.
func writeCrashLog(log CrashLog) error {
	dir := getCrashLogDir()

	if err := crashFs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}

	path := getCrashLogPath(log.Timestamp)
	if err := afero.WriteFile(crashFs, path, []byte(formatCrashLog(log)), 0644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}

	// Non-fatal; the new log is already on disk.
	if err := cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(crashOutput, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	return nil
}

// getCrashLogDir returns the directory for crash logs.
func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = ".contactbook"
	}

	return filepath.Join(basePath, CrashLogDir)
}

// getCrashLogPath returns the path for a crash log file.
func getCrashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s.log", t.Format("20060102_150405.000"))
	return filepath.Join(getCrashLogDir(), filename)
}

// formatCrashLog formats a CrashLog as human-readable text.
func formatCrashLog(log CrashLog) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 80) + "\n"
	section := func(title, body string) {
		sb.WriteString("\n" + strings.Repeat("-", 80) + "\n")
		sb.WriteString(title + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(rule)
	sb.WriteString("CONTACTBOOK CRASH LOG\n")
	sb.WriteString(rule + "\n")

	fmt.Fprintf(&sb, "Timestamp: %s\n", log.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", log.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", log.Command)
	fmt.Fprintf(&sb, "Run ID:    %s\n", log.RunID)
	fmt.Fprintf(&sb, "Go:        %s\n", log.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch:   %s/%s\n", log.OS, log.Arch)

	section("PANIC VALUE", log.PanicValue)
	section("STACK TRACE", log.StackTrace)
	if log.LastInput != "" {
		section("LAST USER INPUT", log.LastInput)
	}

	sb.WriteString("\n" + rule)
	sb.WriteString("END OF CRASH LOG\n")
	sb.WriteString(rule)

	return sb.String()
}

// cleanOldCrashLogs removes old crash logs, keeping only MaxCrashLogs most recent.
func cleanOldCrashLogs(dir string) error {
	logs, err := crashLogNames(dir)
	if err != nil {
		return err
	}
	if len(logs) <= MaxCrashLogs {
		return nil
	}

	// Names embed the timestamp, so lexical order is oldest first.
	for _, name := range logs[:len(logs)-MaxCrashLogs] {
		if err := crashFs.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}

func crashLogNames(dir string) ([]string, error) {
	entries, err := afero.ReadDir(crashFs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCrashLogs returns the paths of all crash logs, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := getCrashLogDir()
	names, err := crashLogNames(dir)
	if err != nil {
		return nil, err
	}
	logs := make([]string, len(names))
	for i, name := range names {
		logs[i] = filepath.Join(dir, name)
	}
	return logs, nil
}

// ReadCrashLog reads a crash log file.
func ReadCrashLog(path string) (string, error) {
	content, err := afero.ReadFile(crashFs, path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
