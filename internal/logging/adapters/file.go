package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"loxo-bridge/internal/logging/types"
)

// FileAdapter implements the LogAdapter interface for append-only file output
type FileAdapter struct {
	name   string
	config FileConfig
	file   *os.File
	mu     sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath    string `yaml:"file_path"`     // path to log file
	Format      string `yaml:"format"`        // json or text
	CreateDirs  bool   `yaml:"create_dirs"`   // create parent directories if they don't exist
	SyncOnWrite bool   `yaml:"sync_on_write"` // sync after each write
}

// NewFileAdapter creates a new file adapter
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.Format == "" {
		config.Format = "json"
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileAdapter{
		name:   name,
		config: config,
		file:   file,
	}, nil
}

// Write writes a log entry to the file
func (a *FileAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("log file is closed")
	}

	var line string
	switch strings.ToLower(a.config.Format) {
	case "text":
		line = a.formatText(entry)
	default:
		data, err := json.Marshal(map[string]interface{}{
			"level":   entry.Level.String(),
			"message": entry.Message,
			"time":    entry.Timestamp,
			"fields":  entry.Fields,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal log entry: %w", err)
		}
		line = string(data)
	}

	if _, err := fmt.Fprintln(a.file, line); err != nil {
		return err
	}

	if a.config.SyncOnWrite {
		return a.file.Sync()
	}

	return nil
}

// Close closes the underlying file
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}

	err := a.file.Close()
	a.file = nil
	return err
}

// Name returns the name of the adapter
func (a *FileAdapter) Name() string {
	return a.name
}

func (a *FileAdapter) formatText(entry *types.LogEntry) string {
	output := fmt.Sprintf("%s [%s] %s",
		entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		strings.ToUpper(entry.Level.String()),
		entry.Message)

	if len(entry.Fields) > 0 {
		var fields []string
		for k, v := range entry.Fields {
			fields = append(fields, fmt.Sprintf("%s=%v", k, v))
		}
		output += " " + strings.Join(fields, " ")
	}

	return output
}
