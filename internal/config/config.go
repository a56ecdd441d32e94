package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// EnvPrefix is prepended to every environment override, e.g. YTJ_POLL_INTERVAL
const EnvPrefix = "YTJ"

// Sink kinds
const (
	SinkLocal = "local"
	SinkMinIO = "minio"
)

// Config is the runtime configuration shared by the CLI and the desktop app
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Poll    PollConfig    `mapstructure:"poll"`
	Output  OutputConfig  `mapstructure:"output"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Log     LogConfig     `mapstructure:"log"`
}

// BackendConfig locates the conversion service
type BackendConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int           `mapstructure:"burst"`
}

// PollConfig tunes the progress poller
type PollConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"` // 0 means same as Interval
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// OutputConfig holds output settings for headless runs
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	Format     string `mapstructure:"format"`
	Quality    string `mapstructure:"quality"`
	VideoCodec string `mapstructure:"video_codec"`
	AudioOnly  bool   `mapstructure:"audio_only"`
}

// SinkConfig selects where retrieved artifacts go
type SinkConfig struct {
	Kind  string      `mapstructure:"kind"`
	MinIO MinIOConfig `mapstructure:"minio"`
}

// MinIOConfig configures the object storage sink
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
	BasePath        string `mapstructure:"base_path"`
}

// LogConfig controls logger output
type LogConfig struct {
	Env  string `mapstructure:"env"`
	JSON bool   `mapstructure:"json"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("backend.rate_limit", 50.0)
	v.SetDefault("backend.burst", 50)

	v.SetDefault("poll.interval", time.Second)
	v.SetDefault("poll.timeout", time.Duration(0))
	v.SetDefault("poll.max_concurrent", 0)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.quality", DefaultQuality)
	v.SetDefault("output.video_codec", DefaultVideoCodec)
	v.SetDefault("output.audio_only", false)

	v.SetDefault("sink.kind", SinkLocal)
	v.SetDefault("sink.minio.endpoint", "")
	v.SetDefault("sink.minio.access_key_id", "")
	v.SetDefault("sink.minio.secret_access_key", "")
	v.SetDefault("sink.minio.use_ssl", false)
	v.SetDefault("sink.minio.bucket", "")
	v.SetDefault("sink.minio.base_path", "")

	v.SetDefault("log.env", "development")
	v.SetDefault("log.json", false)
}

// NewViper builds a viper instance with defaults and environment binding.
// PYTHON_API_URL and APP_ENV are honoured when the prefixed variables are unset.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("backend.url", EnvPrefix+"_BACKEND_URL", "PYTHON_API_URL")
	_ = v.BindEnv("log.env", EnvPrefix+"_LOG_ENV", "APP_ENV")

	SetDefaults(v)
	return v
}

// Load reads configuration from path (if not empty), or from ytjobs.{yaml,toml,json}
// in the working directory or ~/.config/ytjobs when present, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	} else {
		v.SetConfigName("ytjobs")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ytjobs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "failed to read config file")
			}
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.Poll.Timeout <= 0 {
		cfg.Poll.Timeout = cfg.Poll.Interval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the engine misbehave
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return errors.InvalidInput("backend.url is required")
	}
	if c.Poll.Interval <= 0 {
		return errors.InvalidInput("poll.interval must be positive")
	}
	if c.Backend.RateLimit < 0 {
		return errors.InvalidInput("backend.rate_limit must not be negative")
	}
	switch c.Sink.Kind {
	case SinkLocal:
	case SinkMinIO:
		if c.Sink.MinIO.Endpoint == "" || c.Sink.MinIO.Bucket == "" {
			return errors.InvalidInput("sink.minio.endpoint and sink.minio.bucket are required for the minio sink")
		}
	default:
		return errors.InvalidInput("sink.kind must be local or minio, got " + c.Sink.Kind)
	}
	return nil
}

// OutputSettings resolves the configured output for submissions.
// An audio format or the audio_only quality implies AudioOnly.
func (o OutputConfig) OutputSettings() model.OutputSettings {
	out := model.OutputSettings{
		Format:     o.Format,
		Quality:    o.Quality,
		VideoCodec: o.VideoCodec,
		AudioOnly:  o.AudioOnly,
	}
	if out.Quality == QualityAudioOnly || audioFormats[out.Format] {
		out.AudioOnly = true
	}
	return out
}
