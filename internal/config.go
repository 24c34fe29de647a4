package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"hotelres/internal/utils"
)

const (
	DefaultBaseURL     = "http://localhost:4040/api"
	DefaultConsoleAddr = ":8081"
	defaultConfigFile  = "config.yaml"
)

// Config holds the client settings. Precedence: environment, then the YAML
// file, then defaults.
type Config struct {
	BaseURL    string        `yaml:"base_url"`
	StateDir   string        `yaml:"state_dir"`
	SessionKey string        `yaml:"session_key_file"`
	LogFile    string        `yaml:"log_file"`
	CADir      string        `yaml:"ca_dir"`
	Console    ConsoleConfig `yaml:"console"`
}

type ConsoleConfig struct {
	Listen       string `yaml:"listen"`
	CookieSecret string `yaml:"cookie_secret"`
}

var (
	config     Config
	configErr  error
	configOnce sync.Once
)

// LoadConfig reads .env, the YAML file and the environment once per process.
func LoadConfig() (Config, error) {
	configOnce.Do(func() {
		if configErr = loadDotEnv(".env"); configErr != nil {
			return
		}
		path := os.Getenv("HOTELRES_CONFIG")
		if path == "" {
			path = defaultConfigFile
		}
		config, configErr = ReadConfig(path)
	})
	return config, configErr
}

// loadDotEnv loads path into the environment. Only a missing file is ignored.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ReadConfig builds a Config from path (optional) plus the environment.
func ReadConfig(path string) (Config, error) {
	var c Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	c.applyEnv()
	c.applyDefaults()
	if err := c.Verify(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.BaseURL, "HOTELRES_API")
	set(&c.StateDir, "HOTELRES_STATE_DIR")
	set(&c.SessionKey, "HOTELRES_SESSION_KEY")
	set(&c.LogFile, "HOTELRES_LOG_FILE")
	set(&c.CADir, "HOTELRES_CA_DIR")
	set(&c.Console.Listen, "HOTELRES_CONSOLE_ADDR")
	set(&c.Console.CookieSecret, "HOTELRES_COOKIE_SECRET")
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.StateDir == "" {
		c.StateDir = utils.DefaultStateDir()
	}
	if c.SessionKey == "" {
		c.SessionKey = utils.KeyFile(c.StateDir)
	}
	if c.Console.Listen == "" {
		c.Console.Listen = DefaultConsoleAddr
	}
}

// Verify filters out evident errors
func (c *Config) Verify() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("config: verify error: invalid base_url %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: verify error: base_url must be http or https, got %q", u.Scheme)
	}
	return nil
}
