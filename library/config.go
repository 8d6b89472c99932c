package library

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read once at process start; there is no runtime
// reconfiguration.
type Config struct {
	ServerURL   string        `yaml:"server_url" env:"BIBLIO_SERVER" env-default:"http://localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"BIBLIO_TIMEOUT" env-default:"10s"`
	JournalPath string        `yaml:"journal_path" env:"BIBLIO_JOURNAL"`
}

// LoadConfig reads the YAML file at path, falling back to the BIBLIO_CONFIG
// env var. An explicitly supplied path must exist; a missing file from the
// env lookup is not an error, env vars and defaults still apply.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if path == "" {
		path = os.Getenv("BIBLIO_CONFIG")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return cfg, fmt.Errorf("config file %s: %w", path, err)
			}
		} else {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
