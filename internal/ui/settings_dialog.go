package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-jobtracker/internal/config"
)

// SettingsDialog edits output settings and interface preferences
type SettingsDialog struct {
	settings     *config.Settings
	prefs        *config.Preferences
	localization *Localization
	window       fyne.Window
	onSaved      func()

	downloadDirEntry *widget.Entry
	formatSelect     *widget.Select
	qualitySelect    *widget.Select
	codecSelect      *widget.Select
	audioOnlyCheck   *widget.Check
	autoRevealCheck  *widget.Check
	languageSelect   *widget.Select
	darkModeCheck    *widget.Check

	// display name -> language code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the dialog; onSaved runs after a save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, prefs *config.Preferences, localization *Localization, onSaved func()) {
	sd := &SettingsDialog{
		settings:     settings,
		prefs:        prefs,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}
	sd.show()
}

func (sd *SettingsDialog) show() {
	l := sd.localization

	sd.downloadDirEntry = widget.NewEntry()
	browseBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	dirRow := container.NewBorder(nil, nil, nil, browseBtn, sd.downloadDirEntry)

	sd.formatSelect = widget.NewSelect(sd.settings.GetFormatOptions(), nil)
	sd.qualitySelect = widget.NewSelect(sd.settings.GetQualityOptions(), nil)
	sd.codecSelect = widget.NewSelect(sd.settings.GetVideoCodecOptions(), nil)
	sd.audioOnlyCheck = widget.NewCheck(l.GetText(KeyAudioOnly), nil)
	sd.autoRevealCheck = widget.NewCheck(l.GetText(KeyAutoReveal), nil)
	sd.darkModeCheck = widget.NewCheck(l.GetText(KeyTheme), nil)

	sd.languageCodes = make(map[string]string)
	var names []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	sd.loadCurrentSettings()

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyDownloadDirectory), dirRow),
		widget.NewFormItem(l.GetText(KeyFormat), sd.formatSelect),
		widget.NewFormItem(l.GetText(KeyQuality), sd.qualitySelect),
		widget.NewFormItem(l.GetText(KeyVideoCodec), sd.codecSelect),
		widget.NewFormItem("", sd.audioOnlyCheck),
		widget.NewFormItem("", sd.autoRevealCheck),
		widget.NewFormItem(l.GetText(KeyLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.darkModeCheck),
	)

	d := dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	d.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
	d.Show()
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.formatSelect.SetSelected(sd.settings.GetFormat())
	sd.qualitySelect.SetSelected(sd.settings.GetQuality())
	sd.codecSelect.SetSelected(sd.settings.GetVideoCodec())
	sd.audioOnlyCheck.SetChecked(sd.settings.GetAudioOnly())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.darkModeCheck.SetChecked(sd.prefs.IsDarkMode())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.prefs.Language()])
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	sd.settings.SetFormat(sd.formatSelect.Selected)
	sd.settings.SetQuality(sd.qualitySelect.Selected)
	sd.settings.SetVideoCodec(sd.codecSelect.Selected)
	sd.settings.SetAudioOnly(sd.audioOnlyCheck.Checked)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok && code != sd.prefs.Language() {
		sd.prefs.SetLanguage(code)
	}
	if sd.darkModeCheck.Checked != sd.prefs.IsDarkMode() {
		sd.prefs.SetDarkMode(sd.darkModeCheck.Checked)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
