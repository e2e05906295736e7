package config

import "time"

var Conf Config

type Config struct {
	Environment string    `mapstructure:"-" json:"-" yaml:"-"`
	Server      Server    `mapstructure:"server" json:"server" yaml:"server"`
	API         API       `mapstructure:"api" json:"api" yaml:"api"`
	Session     Session   `mapstructure:"session" json:"session" yaml:"session"`
	Edge        Edge      `mapstructure:"edge" json:"edge" yaml:"edge"`
	RateLimit   RateLimit `mapstructure:"rate_limit" json:"rateLimit" yaml:"rate_limit"`
	Storage     Storage   `mapstructure:"storage" json:"storage" yaml:"storage"`
}

type Server struct {
	Port string `mapstructure:"port" json:"port" yaml:"port"`
}

// API는 백엔드 REST API 설정입니다. base_url은 NEXT_PUBLIC_API_URL로도 덮어쓸 수 있습니다
type API struct {
	BaseURL string        `mapstructure:"base_url" json:"baseUrl" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
}

type Session struct {
	Duration time.Duration `mapstructure:"duration" json:"duration" yaml:"duration"`
}

type Edge struct {
	FailClosed      bool   `mapstructure:"fail_closed" json:"failClosed" yaml:"fail_closed"`
	LoginPath       string `mapstructure:"login_path" json:"loginPath" yaml:"login_path"`
	ProtectedPrefix string `mapstructure:"protected_prefix" json:"protectedPrefix" yaml:"protected_prefix"`
	LandingPath     string `mapstructure:"landing_path" json:"landingPath" yaml:"landing_path"`
}

type RateLimit struct {
	MaxAttempts     int           `mapstructure:"max_attempts" json:"maxAttempts" yaml:"max_attempts"`
	Lockout         time.Duration `mapstructure:"lockout" json:"lockout" yaml:"lockout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" json:"cleanupInterval" yaml:"cleanup_interval"`
}

// Storage.Path는 blasiractl의 영구 저장소(SQLite) 경로입니다
type Storage struct {
	Path string `mapstructure:"path" json:"path" yaml:"path"`
}

func (c Config) Production() bool {
	return c.Environment == "production"
}
