package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	DefaultPath = "./config/marketevents.yaml"
	EnvPrefix   = "MARKETEVENTS_"
)

type Application struct {
	Listen        string        `koanf:"listen" yaml:"listen"`
	API           API           `koanf:"api" yaml:"api"`
	Symbol        string        `koanf:"symbol" yaml:"symbol"`
	RangeDays     int           `koanf:"rangedays" yaml:"rangedays"`
	Refresh       string        `koanf:"refresh" yaml:"refresh"`
	Notifications Notifications `koanf:"notifications" yaml:"notifications"`
}

type API struct {
	BaseURL string        `koanf:"baseurl" yaml:"baseurl"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// MarshalYAML writes the timeout as a duration string ("15s").
func (a API) MarshalYAML() (any, error) {
	return struct {
		BaseURL string `yaml:"baseurl"`
		Timeout string `yaml:"timeout"`
	}{a.BaseURL, a.Timeout.String()}, nil
}

type Notifications struct {
	Enabled    bool   `koanf:"enabled" yaml:"enabled"`
	WebhookURL string `koanf:"webhookurl" yaml:"webhookurl"`
	Icon       string `koanf:"icon" yaml:"icon"`
}

func Default() Application {
	return Application{
		Listen: ":8181",
		API: API{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Symbol:    "SPY",
		RangeDays: 7,
		Refresh:   "*/15 * * * *",
		Notifications: Notifications{
			Enabled: true,
			Icon:    "/static/images/alert-icon.png",
		},
	}
}

// Validate rejects values the application cannot start with.
func (a Application) Validate() error {
	var errs []error
	if strings.TrimSpace(a.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.baseurl is required"))
	}
	if a.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", a.API.Timeout))
	}
	if a.RangeDays < 0 {
		errs = append(errs, fmt.Errorf("rangedays must not be negative, got %d", a.RangeDays))
	}
	if a.Refresh != "" {
		if _, err := cron.ParseStandard(a.Refresh); err != nil {
			errs = append(errs, fmt.Errorf("refresh: invalid cron expression %q: %w", a.Refresh, err))
		}
	}
	return errors.Join(errs...)
}

// Load layers defaults, the YAML file at path (optional) and MARKETEVENTS_
// environment variables, in that order.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Default(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if err := app.Validate(); err != nil {
		return Application{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return app, nil
}

// Save writes cfg as YAML to path, replacing any existing file atomically.
// The file is created with mode 0600.
func Save(path string, cfg Application) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".marketevents-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
