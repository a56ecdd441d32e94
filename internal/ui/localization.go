package ui

import "sync"

// Localization manages UI text translations
type Localization struct {
	mu              sync.RWMutex
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeySave              = "save"
	KeyReveal            = "reveal"
	KeyOpen              = "open"
	KeyDismiss           = "dismiss"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyView              = "view"
	KeyToggleTheme       = "toggle_theme"
	KeyLanguage          = "language"
	KeyTheme             = "theme"
	KeyDownloadDirectory = "download_directory"
	KeyFormat            = "format"
	KeyQuality           = "quality"
	KeyVideoCodec        = "video_codec"
	KeyAudioOnly         = "audio_only"
	KeyAutoReveal        = "auto_reveal"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeySubmitting        = "submitting"
	KeyJobSubmitted      = "job_submitted"
	KeyJobReady          = "job_ready"
	KeyJobFailed         = "job_failed"
	KeySaved             = "saved"
	KeySaveFailed        = "save_failed"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeySubmitFailed      = "submit_failed"
	KeyParsingStarted    = "parsing_started"
	KeyParsingFailed     = "parsing_failed"
	KeyPlaylistSubmitted = "playlist_submitted"
	KeyNoJobs            = "no_jobs"

	KeyStatusFetchingInfo = "status_fetching_info"
	KeyStatusDownloading  = "status_downloading"
	KeyStatusProcessing   = "status_processing"
	KeyStatusCompleted    = "status_completed"
	KeyStatusError        = "status_error"
)

// Language codes
const (
	LangSystem  = "system"
	LangEnglish = "en"
	LangUkr     = "uk"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes are ignored;
// "system" resolves to English.
func (l *Localization) SetLanguage(lang string) {
	if lang == LangSystem || lang == "" {
		lang = LangEnglish
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	if text, found := l.texts[LangEnglish][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish: "English",
		LangUkr:     "Українська",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LangEnglish] = map[string]string{
		KeyAppTitle:          "YT Job Tracker",
		KeyDownload:          "Convert",
		KeySave:              "Save",
		KeyReveal:            "Reveal",
		KeyOpen:              "Open",
		KeyDismiss:           "Dismiss",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyView:              "View",
		KeyToggleTheme:       "Toggle dark mode",
		KeyLanguage:          "Language",
		KeyTheme:             "Dark mode",
		KeyDownloadDirectory: "Save directory",
		KeyFormat:            "Format",
		KeyQuality:           "Quality",
		KeyVideoCodec:        "Video codec",
		KeyAudioOnly:         "Audio only",
		KeyAutoReveal:        "Reveal saved files",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter video URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved",
		KeySubmitting:        "Submitting...",
		KeyJobSubmitted:      "Job submitted",
		KeyJobReady:          "Ready to save",
		KeyJobFailed:         "Conversion failed",
		KeySaved:             "Saved to",
		KeySaveFailed:        "Could not save file",
		KeyErrorOpeningFile:  "Error opening file",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeySubmitFailed:      "Submission failed",
		KeyParsingStarted:    "Reading playlist...",
		KeyParsingFailed:     "Could not read playlist",
		KeyPlaylistSubmitted: "Playlist submitted",
		KeyNoJobs:            "No jobs yet",

		KeyStatusFetchingInfo: "Fetching info",
		KeyStatusDownloading:  "Downloading",
		KeyStatusProcessing:   "Processing",
		KeyStatusCompleted:    "Completed",
		KeyStatusError:        "Error",
	}

	l.texts[LangUkr] = map[string]string{
		KeyAppTitle:          "YT Трекер завдань",
		KeyDownload:          "Конвертувати",
		KeySave:              "Зберегти",
		KeyReveal:            "Показати",
		KeyOpen:              "Відкрити",
		KeyDismiss:           "Прибрати",
		KeySettings:          "Налаштування",
		KeyFile:              "Файл",
		KeyView:              "Вигляд",
		KeyToggleTheme:       "Темна тема",
		KeyLanguage:          "Мова",
		KeyTheme:             "Темна тема",
		KeyDownloadDirectory: "Папка збереження",
		KeyFormat:            "Формат",
		KeyQuality:           "Якість",
		KeyVideoCodec:        "Відеокодек",
		KeyAudioOnly:         "Лише аудіо",
		KeyAutoReveal:        "Показувати збережені файли",
		KeyCancel:            "Скасувати",
		KeyBrowse:            "Огляд",
		KeyEnterURL:          "Введіть URL відео (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Налаштування збережено",
		KeySubmitting:        "Надсилання...",
		KeyJobSubmitted:      "Завдання надіслано",
		KeyJobReady:          "Готово до збереження",
		KeyJobFailed:         "Помилка конвертації",
		KeySaved:             "Збережено в",
		KeySaveFailed:        "Не вдалося зберегти файл",
		KeyErrorOpeningFile:  "Помилка відкриття файлу",
		KeyInvalidURL:        "Невірний URL",
		KeyPleaseEnterURL:    "Будь ласка, введіть URL",
		KeySubmitFailed:      "Не вдалося надіслати",
		KeyParsingStarted:    "Читання плейлиста...",
		KeyParsingFailed:     "Не вдалося прочитати плейлист",
		KeyPlaylistSubmitted: "Плейлист надіслано",
		KeyNoJobs:            "Завдань ще немає",

		KeyStatusFetchingInfo: "Отримання даних",
		KeyStatusDownloading:  "Завантаження",
		KeyStatusProcessing:   "Обробка",
		KeyStatusCompleted:    "Завершено",
		KeyStatusError:        "Помилка",
	}
}
