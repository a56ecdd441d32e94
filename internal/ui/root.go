package ui

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-jobtracker/internal/config"
	"github.com/ytget/yt-jobtracker/internal/download"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
	"github.com/ytget/yt-jobtracker/internal/platform"
)

// Options wires the collaborators of the desktop UI
type Options struct {
	Tracker  download.Tracker
	Settings *config.Settings
	Prefs    *config.Preferences
	Sink     download.Sink
	Logger   *logger.Logger
}

// RootUI is the main window content
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	tracker      download.Tracker
	settings     *config.Settings
	prefs        *config.Preferences
	sink         download.Sink
	localization *Localization
	log          *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	urlEntry    *widget.Entry
	downloadBtn *widget.Button
	group       *PlaylistGroup

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	mu       sync.Mutex
	saved    map[string]string          // job id -> saved file
	notified map[string]model.JobStatus // terminal state already announced

	refreshPending atomic.Bool
	closeOnce      sync.Once
	unsubscribe    []func()
}

// NewRootUI builds the window content, subscribes to job changes and starts
// polling. Closing the window stops polling.
func NewRootUI(window fyne.Window, app fyne.App, opts Options) *RootUI {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	localization := NewLocalization()
	localization.SetLanguage(opts.Prefs.Language())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		app:          app,
		tracker:      opts.Tracker,
		settings:     opts.Settings,
		prefs:        opts.Prefs,
		sink:         opts.Sink,
		localization: localization,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
		saved:        make(map[string]string),
		notified:     make(map[string]model.JobStatus),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	ui.unsubscribe = append(ui.unsubscribe,
		ui.tracker.Subscribe(ui.onJobChange),
		ui.prefs.OnLanguageChange(func(lang string) {
			fyne.Do(func() { ui.onLanguageChange(lang) })
		}),
		ui.prefs.OnThemeChange(func(dark bool) {
			fyne.Do(func() { ui.app.Settings().SetTheme(NewCompactTheme(dark)) })
		}),
	)
	window.SetOnClosed(ui.Close)

	ui.tracker.Start(ctx)
	ui.render()
	return ui
}

// Close stops polling and detaches observers. Safe to call more than once.
func (ui *RootUI) Close() {
	ui.closeOnce.Do(func() {
		for _, unsubscribe := range ui.unsubscribe {
			unsubscribe()
		}
		ui.cancel()
		ui.tracker.Stop()
		ui.log.LogInfof("UI closed, polling stopped")
	})
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	themeBtn := widget.NewButton(IconTheme, ui.prefs.ToggleDarkMode)
	themeBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn, themeBtn)
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		img.FillMode = canvas.ImageFillContain
		left = container.NewHBox(img, settingsBtn, themeBtn)
	}
	topPanel := container.NewBorder(nil, nil, left, ui.downloadBtn, ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.group = NewPlaylistGroup(ui.localization)
	ui.group.SetRowCallbacks(ui.onSaveJob, ui.onRevealFile, ui.onOpenFile, ui.onDismissJob)

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil,
		nil,
		nil,
		ui.group.Container(),
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	themeItem := fyne.NewMenuItem(ui.localization.GetText(KeyToggleTheme), ui.prefs.ToggleDarkMode)
	themeItem.Checked = ui.prefs.IsDarkMode()

	languages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for _, code := range codes {
		item := fyne.NewMenuItem(languages[code], func() { ui.prefs.SetLanguage(code) })
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		fyne.NewMenu(ui.localization.GetText(KeyView), themeItem),
		languageMenu,
	))
}

// onLanguageChange re-renders every text after a language switch
func (ui *RootUI) onLanguageChange(lang string) {
	ui.localization.SetLanguage(lang)
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.createMenu()
	ui.group.RefreshTexts()
}

// validateURL accepts empty input and absolute http(s) URLs
func validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parsed, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

// onDownloadClick submits the entered URL in the background
func (ui *RootUI) onDownloadClick() {
	urlText := cleanText(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}
	if err := validateURL(urlText); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL)+": "+err.Error(), false)
		return
	}

	if ui.tracker.IsPlaylistURL(urlText) {
		ui.submitPlaylist(urlText)
		return
	}

	ui.showNotification(ui.localization.GetText(KeySubmitting), true)
	go func() {
		handle, err := ui.tracker.Submit(ui.ctx, urlText)
		fyne.Do(func() {
			if err != nil {
				ui.log.Warn().Err(err).Str("url", urlText).Msg("submission failed")
				ui.showNotification(ui.localization.GetText(KeySubmitFailed)+": "+errors.Reason(err), false)
				return
			}
			ui.log.Info().Str("job_id", handle.ID).Str("url", urlText).Msg("job submitted")
			ui.urlEntry.SetText("")
			ui.showNotification(ui.localization.GetText(KeyJobSubmitted), false)
		})
	}()
}

// submitPlaylist expands and submits a playlist in the background
func (ui *RootUI) submitPlaylist(urlText string) {
	ui.showNotification(ui.localization.GetText(KeyParsingStarted), true)
	go func() {
		sub, err := ui.tracker.SubmitPlaylist(ui.ctx, urlText)
		fyne.Do(func() {
			if err != nil {
				ui.log.Warn().Err(err).Str("url", urlText).Msg("playlist submission failed")
				ui.showNotification(ui.localization.GetText(KeyParsingFailed)+": "+errors.Reason(err), false)
				return
			}
			ui.urlEntry.SetText("")
			ui.render()
			ui.group.AddPlaylist(sub)
			msg := fmt.Sprintf("%s: %d/%d", ui.localization.GetText(KeyPlaylistSubmitted), len(sub.Handles), len(sub.Entries))
			ui.showNotification(msg, false)
		})
	}()
}

// showNotification displays a message under the URL entry. Must run on the
// UI goroutine.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.prefs, ui.localization, func() {
		ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
	})
}

// onJobChange runs on the store's goroutine after every change
func (ui *RootUI) onJobChange(c download.Change) {
	switch c.Kind {
	case download.ChangeRemoved:
		ui.mu.Lock()
		delete(ui.saved, c.Job.ID)
		delete(ui.notified, c.Job.ID)
		ui.mu.Unlock()
	default:
		if c.Job.Status.IsTerminal() && ui.markNotified(c.Job) {
			job := c.Job
			fyne.Do(func() { ui.announce(job) })
		}
	}
	ui.scheduleRender()
}

// markNotified reports whether job reached a terminal state not yet announced
func (ui *RootUI) markNotified(job model.Job) bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if ui.notified[job.ID] == job.Status {
		return false
	}
	ui.notified[job.ID] = job.Status
	return true
}

// scheduleRender coalesces bursts of changes into one list refresh
func (ui *RootUI) scheduleRender() {
	if !ui.refreshPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(UIUpdateDebounce, func() {
		fyne.Do(func() {
			ui.refreshPending.Store(false)
			ui.render()
		})
	})
}

// render pulls a fresh snapshot into the list. Must run on the UI goroutine.
func (ui *RootUI) render() {
	jobs := ui.tracker.Snapshot()

	ui.mu.Lock()
	saved := make(map[string]string, len(ui.saved))
	for id, p := range ui.saved {
		saved[id] = p
	}
	ui.mu.Unlock()

	ui.group.SetJobs(jobs, saved)
}

// announce tells the user a job finished
func (ui *RootUI) announce(job model.Job) {
	title := ui.localization.GetText(KeyJobReady)
	content := job.DisplayTitle()
	if job.Status == model.JobStatusError {
		title = ui.localization.GetText(KeyJobFailed)
		content += ": " + job.Error
	}
	ui.app.SendNotification(&fyne.Notification{Title: title, Content: content})
	ui.showToast(title, content)
}

// showToast pops a card in the bottom right corner that hides itself
func (ui *RootUI) showToast(title, content string) {
	body := widget.NewLabel(content)
	body.Wrapping = fyne.TextWrapWord
	card := widget.NewCard(title, "", body)

	popup := widget.NewPopUp(card, ui.window.Canvas())
	popup.Resize(fyne.NewSize(ToastWidth, ToastHeight))

	canvasSize := ui.window.Canvas().Size()
	popup.ShowAtPosition(fyne.NewPos(
		canvasSize.Width-ToastWidth-ToastMargin,
		canvasSize.Height-ToastHeight-ToastMargin,
	))

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(popup.Hide)
	})
}

// onSaveJob retrieves the artifact of a completed job into the save directory
func (ui *RootUI) onSaveJob(jobID string) {
	ui.showNotification(ui.localization.GetText(KeySave)+"...", true)
	go func() {
		location, err := ui.tracker.Download(ui.ctx, jobID, ui.sink)
		if err != nil {
			ui.log.Warn().Err(err).Str("job_id", jobID).Msg("save failed")
			fyne.Do(func() {
				ui.showNotification(ui.localization.GetText(KeySaveFailed)+": "+errors.Reason(err), false)
			})
			return
		}

		ui.mu.Lock()
		ui.saved[jobID] = location
		ui.mu.Unlock()

		fyne.Do(func() {
			ui.showNotification(ui.localization.GetText(KeySaved)+" "+location, false)
			ui.render()
			if ui.settings.GetAutoRevealOnComplete() {
				ui.onRevealFile(location)
			}
		})
	}()
}

// onRevealFile shows a saved file in the system file manager
func (ui *RootUI) onRevealFile(path string) {
	if err := platform.OpenFileInManager(path); err != nil {
		ui.log.Warn().Err(err).Str("path", path).Msg("reveal failed")
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error(), false)
	}
}

// onOpenFile opens a saved file with the default application
func (ui *RootUI) onOpenFile(path string) {
	if err := platform.OpenFileWithDefaultApp(path); err != nil {
		ui.log.Warn().Err(err).Str("path", path).Msg("open failed")
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error(), false)
	}
}

// onDismissJob stops tracking a finished job
func (ui *RootUI) onDismissJob(jobID string) {
	if err := ui.tracker.Dismiss(jobID); err != nil {
		ui.showNotification(errors.Reason(err), false)
	}
}
