package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // access token lifetime in minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // for local storage
		BaseURL   string `yaml:"base_url"`   // public URL base
		Bucket    string `yaml:"bucket"`     // for S3-compatible stores
		Region    string `yaml:"region"`     // for S3
		AccessKey string `yaml:"access_key"` // for S3
		SecretKey string `yaml:"secret_key"` // for S3
		Endpoint  string `yaml:"endpoint"`   // for Supabase/R2 style endpoints
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // allowed MIME types
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
		MaxDimension int      `yaml:"max_dimension"` // longest edge after resize
	} `yaml:"upload"`

	Push struct {
		Endpoint string `yaml:"endpoint"` // push delivery endpoint URL
		Enabled  bool   `yaml:"enabled"`
	} `yaml:"push"`

	Workers struct {
		CleanupIntervalHours int `yaml:"cleanup_interval_hours"`
	} `yaml:"workers"`
}

var AppConfig *Config

// LoadConfig reads config.yaml unless DATABASE_URL is set, in which
// case the whole configuration comes from the environment (test mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@gatherly.app"
	cfg.Email.TemplatesDir = "templates"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"
	cfg.Storage.Bucket = "images"

	cfg.Push.Endpoint = os.Getenv("PUSH_ENDPOINT")
	cfg.Push.Enabled = cfg.Push.Endpoint != ""

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
		}
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Upload.MaxDimension == 0 {
		cfg.Upload.MaxDimension = 1600
	}
	if cfg.Push.Endpoint == "" {
		cfg.Push.Endpoint = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Workers.CleanupIntervalHours == 0 {
		cfg.Workers.CleanupIntervalHours = 24
	}
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
