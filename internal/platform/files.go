package platform

import (
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ytget/yt-jobtracker/internal/errors"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
	AndroidActivity = "am"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// AndroidDownloadsDir is the shared Downloads folder visible to the Gallery and file managers
const AndroidDownloadsDir = "/sdcard/Download"

// maxUniqueAttempts bounds the numbered-suffix search in UniquePath
const maxUniqueAttempts = 10000

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// IsAndroid reports whether the process runs on Android, including Fyne
// Android builds that report linux as GOOS.
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		os.Getenv("ANDROID_STORAGE") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so"
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	if IsAndroid() {
		return openFileInManagerAndroid(absPath)
	}
	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return errors.Newf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := existingAbsPath(filePath)
	if err != nil {
		return err
	}

	if IsAndroid() {
		return openFileWithDefaultAppAndroid(absPath)
	}
	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	default:
		return errors.Newf("unsupported operating system: %s", runtime.GOOS)
	}
}

func existingAbsPath(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.InvalidInput("file path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", errors.Wrapf(err, "file does not exist: %s", filePath)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to get absolute path")
	}
	return absPath, nil
}

// openFileInManagerLinux opens the directory containing the file.
// File selection is not standardized on Linux.
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return errors.New("no suitable file manager found")
}

// openFileInManagerAndroid tries activity intents in order until one starts
func openFileInManagerAndroid(filePath string) error {
	dir := filepath.Dir(filePath)
	attempts := [][]string{
		{"start", "-a", "android.intent.action.VIEW", "-d", "content://com.android.externalstorage.documents/root/primary/Download"},
		{"start", "-a", "android.intent.action.VIEW", "-d", "file://" + dir},
		{"start", "-n", "com.google.android.documentsui/.DocumentsActivity", "-d", "file://" + dir},
		{"start", "-n", "com.android.documentsui/.DocumentsActivity", "-d", "file://" + dir},
		{"start", "-a", "android.settings.INTERNAL_STORAGE_SETTINGS"},
	}
	if runAny(attempts) {
		return nil
	}
	return errors.New("failed to open file in manager: no suitable file manager found")
}

// openFileWithDefaultAppAndroid tries media viewers from most to least specific
func openFileWithDefaultAppAndroid(filePath string) error {
	uri := "file://" + filePath
	attempts := [][]string{
		{"start", "-a", "android.intent.action.VIEW", "-d", uri, "-t", MimeTypeForPath(filePath)},
		{"start", "-a", "android.intent.action.VIEW", "-d", uri, "-t", "video/*"},
		{"start", "-a", "android.intent.action.VIEW", "-d", uri, "-t", "audio/*"},
		{"start", "-a", "android.intent.action.VIEW", "-d", uri},
		{"start", "-n", "org.videolan.vlc/.gui.video.VideoPlayerActivity", "-d", uri},
	}
	if runAny(attempts) {
		return nil
	}
	return errors.New("failed to open file with any method: no suitable app found")
}

// MimeTypeForPath guesses a media type from the file extension
func MimeTypeForPath(filePath string) string {
	if t := mime.TypeByExtension(filepath.Ext(filePath)); t != "" {
		return t
	}
	return "video/*"
}

func runAny(attempts [][]string) bool {
	for _, args := range attempts {
		if err := exec.Command(AndroidActivity, args...).Run(); err == nil {
			return true
		}
	}
	return false
}

// NotifyMediaScanner asks the Android media scanner to index a saved file so
// it shows up in the Gallery. No-op elsewhere.
func NotifyMediaScanner(filePath string) error {
	if !IsAndroid() {
		return nil
	}
	cmd := exec.Command(AndroidActivity, "broadcast", "-a", "android.intent.action.MEDIA_SCANNER_SCAN_FILE", "-d", "file://"+filePath)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to notify media scanner")
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	if IsAndroid() {
		return AndroidDownloadsDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// UniquePath returns dir/name, or dir/"stem (n).ext" with the smallest n that
// does not exist yet.
func UniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; n < maxUniqueAttempts; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", errors.Newf("no free file name for %s in %s", name, dir)
}
