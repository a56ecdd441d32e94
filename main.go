package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/yt-jobtracker/internal/backend"
	"github.com/ytget/yt-jobtracker/internal/config"
	"github.com/ytget/yt-jobtracker/internal/download"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/platform"
	"github.com/ytget/yt-jobtracker/internal/sink"
	"github.com/ytget/yt-jobtracker/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-jobtracker"
	AppName = "YT Job Tracker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig("app", logger.Config{AppEnv: cfg.Log.Env, JSON: cfg.Log.JSON})
	log.LogInfof("%s v%s starting, backend %s", AppName, version, cfg.Backend.URL)

	myApp := app.NewWithID(AppID)

	prefs := config.NewPreferences(myApp.Preferences(), func() bool {
		return myApp.Settings().ThemeVariant() == theme.VariantDark
	})
	prefs.Init()
	myApp.Settings().SetTheme(ui.NewCompactTheme(prefs.IsDarkMode()))

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		log.LogError("failed to ensure downloads dir", err)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		Burst:     cfg.Backend.Burst,
		Logger:    log.Named("backend"),
	})
	if err != nil {
		log.LogError("invalid backend configuration", err)
		os.Exit(1)
	}

	tracker := download.NewService(download.Config{
		Backend:  client,
		Settings: settings,
		Expander: platform.NewPlaylistExpander(log.Named("playlist")),
		Poller: download.PollerConfig{
			Interval:      cfg.Poll.Interval,
			Timeout:       cfg.Poll.Timeout,
			MaxConcurrent: cfg.Poll.MaxConcurrent,
		},
		Logger: log.Named("tracker"),
	})

	ui.NewRootUI(myWindow, myApp, ui.Options{
		Tracker:  tracker,
		Settings: settings,
		Prefs:    prefs,
		Sink:     sink.NewLocalFunc(settings.GetDownloadDirectory, log.Named("sink")),
		Logger:   log.Named("ui"),
	})

	myWindow.ShowAndRun()
}
