package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BLASIRA"

// dotenv files, first one wins
var dotenvFiles = []string{".env.local", ".env"}

func Default() Config {
	return Config{
		Environment: "development",
		Server:      Server{Port: "3000"},
		API: API{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Session: Session{Duration: 7 * 24 * time.Hour},
		Edge: Edge{
			FailClosed:      true,
			LoginPath:       "/login",
			ProtectedPrefix: "/admin",
			LandingPath:     "/admin/dashboard",
		},
		RateLimit: RateLimit{
			MaxAttempts:     5,
			Lockout:         15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Storage: Storage{Path: defaultStoragePath()},
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".blasira", "blasira.db")
	}
	return filepath.Join(dir, "blasira", "blasira.db")
}

func fileName(goEnv string) string {
	if goEnv == "production" {
		return "config.prod"
	}
	return "config.dev"
}

// Load는 dir 아래의 환경별 설정 파일을 읽습니다. 파일이 없으면 기본값과 환경 변수만 사용합니다
func Load(goEnv, dir string) (Config, error) {
	loadDotenv()

	defaults := Default()
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetConfigName(fileName(goEnv))

	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("session.duration", defaults.Session.Duration)
	v.SetDefault("edge.fail_closed", defaults.Edge.FailClosed)
	v.SetDefault("edge.login_path", defaults.Edge.LoginPath)
	v.SetDefault("edge.protected_prefix", defaults.Edge.ProtectedPrefix)
	v.SetDefault("edge.landing_path", defaults.Edge.LandingPath)
	v.SetDefault("rate_limit.max_attempts", defaults.RateLimit.MaxAttempts)
	v.SetDefault("rate_limit.lockout", defaults.RateLimit.Lockout)
	v.SetDefault("rate_limit.cleanup_interval", defaults.RateLimit.CleanupInterval)
	v.SetDefault("storage.path", defaults.Storage.Path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", EnvPrefix+"_API_BASE_URL", "NEXT_PUBLIC_API_URL"); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		log.Warn().Str("dir", dir).Msgf("Config file %s not found, using defaults", fileName(goEnv))
	} else {
		log.Info().Msgf("Config file loaded: %s", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Environment = goEnv
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")

	return c, nil
}

func loadDotenv() {
	for _, name := range dotenvFiles {
		if err := godotenv.Load(name); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("file", name).Msg("Failed to load dotenv file")
			}
			continue
		}
		log.Debug().Str("file", name).Msg("Dotenv file loaded")
	}
}

// SetConfig는 전역 Conf를 채웁니다. 실패하면 프로세스를 종료합니다
func SetConfig(goEnv string) {
	log.Info().Msgf("Loading configuration for environment: %s", goEnv)

	c, err := Load(goEnv, "config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	Conf = c
}

// Save는 설정을 YAML 파일로 저장합니다
func Save(path string, c Config) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	log.Info().Msgf("Configuration saved to %s", path)
	return nil
}
