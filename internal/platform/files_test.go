package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "out")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	if IsAndroid() {
		t.Skip("android uses shared storage")
	}

	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.mp4")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Error message should mention the missing file, got: %v", err)
	}
}

func TestOpenFileWithDefaultApp_EmptyPath(t *testing.T) {
	if err := OpenFileWithDefaultApp("  "); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	first, err := UniquePath(dir, "clip.mp4")
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if first != filepath.Join(dir, "clip.mp4") {
		t.Errorf("Expected original name when free, got %s", first)
	}
	if err := os.WriteFile(first, []byte("a"), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	second, err := UniquePath(dir, "clip.mp4")
	if err != nil {
		t.Fatalf("UniquePath failed: %v", err)
	}
	if second != filepath.Join(dir, "clip (1).mp4") {
		t.Errorf("Expected numbered name, got %s", second)
	}
	if err := os.WriteFile(second, []byte("b"), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	third, _ := UniquePath(dir, "clip.mp4")
	if third != filepath.Join(dir, "clip (2).mp4") {
		t.Errorf("Expected clip (2).mp4, got %s", third)
	}
}

func TestUniquePath_NoExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README"), nil, DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	got, err := UniquePath(dir, "README")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "README (1)" {
		t.Errorf("Expected 'README (1)', got %q", filepath.Base(got))
	}
}

func TestMimeTypeForPath(t *testing.T) {
	if got := MimeTypeForPath("/tmp/unknown.zzz"); got != "video/*" {
		t.Errorf("Expected video/* fallback, got %s", got)
	}
}

func TestNotifyMediaScanner_NoopOffAndroid(t *testing.T) {
	if IsAndroid() {
		t.Skip("only meaningful off android")
	}
	if err := NotifyMediaScanner("/tmp/whatever.mp4"); err != nil {
		t.Errorf("Expected no-op, got %v", err)
	}
}
