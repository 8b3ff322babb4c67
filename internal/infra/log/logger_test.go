package log

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit_WritesFileLog(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{Dir: dir, Level: "info"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Init(Options{}) })

	LogInfo("Wallet analyzed", zap.String("address", "0xabc"), zap.Int("tokens", 3))
	LogDebug("filtered out at info level")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("failed to read app.log: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "INFO Wallet analyzed") {
		t.Errorf("expected info line, got:\n%s", content)
	}
	if !strings.Contains(content, `"address":"0xabc"`) || !strings.Contains(content, `"tokens":3`) {
		t.Errorf("expected JSON fields, got:\n%s", content)
	}
	if strings.Contains(content, "filtered out") {
		t.Errorf("debug line should be filtered at info level")
	}
}

func TestInit_NoDirIsSilent(t *testing.T) {
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	// Must not panic with no-op loggers.
	LogSuccess("ok")
	LogError("failed")
	LogResponse(GenerateRequestID(), 500, 12, zap.String("endpoint", "/x"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %q", a)
	}
	if a == b {
		t.Error("expected distinct ids")
	}
}

func TestInit_ConcurrentWithLogging(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				LogSuccess("tick", zap.Int("j", j))
				LogError("tock")
				RequestLogger("abc").Debug("req")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if err := Init(Options{Level: "info"}); err != nil {
					t.Errorf("Init failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if Logger() == nil {
		t.Fatal("expected a logger after concurrent Init")
	}
}
