package logging

import (
	"sync"
	"testing"

	"loxo-bridge/internal/logging/types"
)

// captureAdapter records entries in memory
type captureAdapter struct {
	name    string
	mu      sync.Mutex
	entries []types.LogEntry
}

func (a *captureAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *entry)
	return nil
}

func (a *captureAdapter) Close() error { return nil }
func (a *captureAdapter) Name() string { return a.name }

func (a *captureAdapter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

func (a *captureAdapter) last() types.LogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries[len(a.entries)-1]
}

func TestMultiLoggerLevelFiltering(t *testing.T) {
	logger := NewMultiLogger()
	capture := &captureAdapter{name: "capture"}
	if err := logger.AddAdapter(capture); err != nil {
		t.Fatalf("AddAdapter() = %v", err)
	}

	logger.SetLevel(WarnLevel)
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	if got := capture.count(); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}

func TestWithFieldStampsEntries(t *testing.T) {
	logger := NewMultiLogger()
	capture := &captureAdapter{name: "capture"}
	logger.AddAdapter(capture)

	derived := logger.WithField("request_id", "req-1")
	derived.Info("hello", map[string]interface{}{"status": 200})

	entry := capture.last()
	if entry.Fields["request_id"] != "req-1" || entry.Fields["status"] != 200 {
		t.Errorf("fields = %v", entry.Fields)
	}

	// The parent's own entries carry no derived fields
	logger.Info("plain")
	if fields := capture.last().Fields; fields != nil {
		t.Errorf("parent fields = %v, want none", fields)
	}
}

func TestDerivedLoggerSharesCore(t *testing.T) {
	logger := NewMultiLogger()
	derived := logger.WithField("request_id", "req-1")

	// Adapters and level set on the parent after derivation apply to the
	// derived logger too
	capture := &captureAdapter{name: "capture"}
	logger.AddAdapter(capture)
	logger.SetLevel(ErrorLevel)

	derived.Info("dropped")
	derived.Error("kept")

	if got := capture.count(); got != 1 {
		t.Fatalf("entries = %d, want the derived logger to honor the shared level", got)
	}
}

func TestConcurrentDerivedLoggingAndAdapterRegistration(t *testing.T) {
	logger := NewMultiLogger()
	logger.AddAdapter(&captureAdapter{name: "initial"})
	derived := logger.WithField("request_id", "req-1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			derived.Info("concurrent")
		}
	}()
	go func() {
		defer wg.Done()
		logger.AddAdapter(&captureAdapter{name: "late"})
	}()
	wg.Wait()
}

func TestAddAdapterRejectsDuplicateNames(t *testing.T) {
	logger := NewMultiLogger()
	if err := logger.AddAdapter(&captureAdapter{name: "dup"}); err != nil {
		t.Fatalf("AddAdapter() = %v", err)
	}
	if err := logger.AddAdapter(&captureAdapter{name: "dup"}); err == nil {
		t.Fatal("AddAdapter(duplicate) = nil, want error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"bogus", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
