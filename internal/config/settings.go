package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-jobtracker/internal/model"
	"github.com/ytget/yt-jobtracker/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyFormat             = "output_format"
	KeyQuality            = "output_quality"
	KeyVideoCodec         = "video_codec"
	KeyAudioOnly          = "audio_only"
	KeyLanguage           = "app_language"
	KeyTheme              = "app_theme"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultFormat             = "mp4"
	DefaultQuality            = "highest"
	DefaultVideoCodec         = "h264"
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true

	// QualityAudioOnly selects the audio track only
	QualityAudioOnly = "audio_only"
)

// audioFormats are output formats that carry no video
var audioFormats = map[string]bool{"mp3": true, "m4a": true}

// Settings manages user facing output preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetFormat returns the output container format
func (s *Settings) GetFormat() string {
	return s.app.Preferences().StringWithFallback(KeyFormat, DefaultFormat)
}

// SetFormat sets the output container format
func (s *Settings) SetFormat(format string) {
	if format == "" {
		format = DefaultFormat
	}
	s.app.Preferences().SetString(KeyFormat, format)
}

// GetQuality returns the quality preset
func (s *Settings) GetQuality() string {
	return s.app.Preferences().StringWithFallback(KeyQuality, DefaultQuality)
}

// SetQuality sets the quality preset
func (s *Settings) SetQuality(quality string) {
	if quality == "" {
		quality = DefaultQuality
	}
	s.app.Preferences().SetString(KeyQuality, quality)
}

// GetVideoCodec returns the preferred video codec
func (s *Settings) GetVideoCodec() string {
	return s.app.Preferences().StringWithFallback(KeyVideoCodec, DefaultVideoCodec)
}

// SetVideoCodec sets the preferred video codec
func (s *Settings) SetVideoCodec(codec string) {
	if codec == "" {
		codec = DefaultVideoCodec
	}
	s.app.Preferences().SetString(KeyVideoCodec, codec)
}

// GetAudioOnly returns whether only audio is requested
func (s *Settings) GetAudioOnly() bool {
	return s.app.Preferences().Bool(KeyAudioOnly)
}

// SetAudioOnly sets whether only audio is requested
func (s *Settings) SetAudioOnly(audioOnly bool) {
	s.app.Preferences().SetBool(KeyAudioOnly, audioOnly)
}

// OutputSettings resolves the settings sent with the next submission.
// An audio format or the audio_only quality implies AudioOnly.
func (s *Settings) OutputSettings() model.OutputSettings {
	out := model.OutputSettings{
		Format:     s.GetFormat(),
		Quality:    s.GetQuality(),
		VideoCodec: s.GetVideoCodec(),
		AudioOnly:  s.GetAudioOnly(),
	}
	if out.Quality == QualityAudioOnly || audioFormats[out.Format] {
		out.AudioOnly = true
	}
	return out
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to reveal saved artifacts in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal saved artifacts in the file manager
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetFormatOptions returns available output formats
func (s *Settings) GetFormatOptions() []string {
	return []string{"mp4", "mp3", "webm"}
}

// GetQualityOptions returns available quality presets
func (s *Settings) GetQualityOptions() []string {
	return []string{"highest", "high", "medium", "low", QualityAudioOnly}
}

// GetVideoCodecOptions returns available video codecs
func (s *Settings) GetVideoCodecOptions() []string {
	return []string{"h264", "vp9", "av1"}
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"uk":     "Українська",
	}
}
