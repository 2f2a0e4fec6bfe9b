package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeLines(t *testing.T, n int, width int) (string, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= n; i++ {
		line := fmt.Sprintf("Line %d %s", i, strings.Repeat("x", width))
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path, all
}

func TestRead(t *testing.T) {
	logPath, expectedAll := writeLines(t, 10, 0)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_SpansChunks(t *testing.T) {
	// ~200 bytes per line forces several backward chunk reads.
	logPath, all := writeLines(t, 500, 200)

	got, err := Read(logPath, 120)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, all[380:]) {
		t.Fatalf("Read() returned %d lines starting %q, want last 120 starting %q", len(got), got[0], all[380])
	}
}

func TestRead_MissingAndEmpty(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}

	empty := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err = Read(empty, 10)
	if err != nil || got != nil {
		t.Fatalf("Read(empty) = %v, %v; want nil, nil", got, err)
	}
}

func TestParseAndSummary(t *testing.T) {
	line := `{"level":"info","ts":"2025-10-08T21:01:05.123Z","msg":"request completed","method":"DELETE","path":"/users/5","status":404}`
	e := Parse(line)

	if e.Level != "INFO" || e.Message != "request completed" {
		t.Fatalf("Parse = %#v, want INFO request completed", e)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 123000000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if e.Fields["status"] != "404" || e.Fields["path"] != "/users/5" {
		t.Fatalf("Fields = %v, want status and path", e.Fields)
	}

	summary := e.Summary()
	if !strings.HasSuffix(summary, "INFO  request completed method=DELETE path=/users/5 status=404") {
		t.Fatalf("Summary = %q", summary)
	}
}

func TestParse_NonJSONKeepsRaw(t *testing.T) {
	e := Parse("plain text line")
	if e.Raw != "plain text line" || e.Summary() != "plain text line" {
		t.Fatalf("Parse(non-json) = %#v", e)
	}
}
