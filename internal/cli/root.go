// Package cli is the headless front end: submit jobs, watch them converge in a
// live table, and fetch their artifacts without the desktop window.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-jobtracker/internal/backend"
	"github.com/ytget/yt-jobtracker/internal/config"
	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
)

// DefaultEnvFile is read before configuration when present
const DefaultEnvFile = ".env"

// env is shared by every subcommand; PersistentPreRunE fills it in
type env struct {
	configPath string
	backendURL string
	envFile    string
	logOut     io.Writer

	cfg    *config.Config
	log    *logger.Logger
	client *backend.Client
}

// NewRootCmd builds the ytjobs command tree
func NewRootCmd(version string) *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "ytjobs",
		Short: "Track media conversion jobs from the command line",
		Long: `ytjobs submits URLs to the conversion backend, polls their progress and
saves the finished artifacts.

Examples:
  ytjobs get https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytjobs get --format mp3 --out ~/Music <url>
  ytjobs status 3f1c...
  ytjobs fetch 3f1c... --out /tmp
  ytjobs health`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default ./ytjobs.yaml or ~/.config/ytjobs/ytjobs.yaml)")
	root.PersistentFlags().StringVar(&e.backendURL, "backend", "", "backend base URL, overrides config and environment")
	root.PersistentFlags().StringVar(&e.envFile, "env", DefaultEnvFile, "dotenv file loaded before configuration")

	root.AddCommand(
		newGetCmd(e),
		newStatusCmd(e),
		newFetchCmd(e),
		newHealthCmd(e),
	)
	return root
}

func (e *env) init(cmd *cobra.Command) error {
	if e.envFile != "" {
		if err := godotenv.Load(e.envFile); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to load %s", e.envFile)
		}
	}

	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if url := strings.TrimSpace(e.backendURL); url != "" {
		cfg.Backend.URL = url
	}
	e.cfg = cfg

	out := e.logOut
	if out == nil {
		out = cmd.ErrOrStderr()
	}
	e.log = logger.NewWithConfig("ytjobs", logger.Config{AppEnv: cfg.Log.Env, JSON: cfg.Log.JSON, Out: out})

	e.client, err = backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		Burst:     cfg.Backend.Burst,
		Logger:    e.log.Named("backend"),
	})
	return err
}
