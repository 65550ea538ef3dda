package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "VTZPROXY_"

type Application struct {
	Server   Server   `koanf:"server"`
	Upstream Upstream `koanf:"upstream"`
	Catalog  Catalog  `koanf:"catalog"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
}

// Upstream describes the single remote calendar provider calendars are fetched from.
type Upstream struct {
	AllowedPrefix string        `koanf:"allowedprefix"`
	Timeout       time.Duration `koanf:"timeout"`
	UserAgent     string        `koanf:"useragent"`
	MaxBodyBytes  int64         `koanf:"maxbodybytes"`
}

type Catalog struct {
	Path     string `koanf:"path"`
	Validate bool   `koanf:"validate"`
}

// Defaults returns the configuration used when neither the file nor the environment override a key.
func Defaults() Application {
	return Application{
		Server: Server{
			Addr:         ":8000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Upstream: Upstream{
			AllowedPrefix: "https://outlook.office365.com",
			Timeout:       20 * time.Second,
			UserAgent:     "vtzproxy/1.0",
			MaxBodyBytes:  10 << 20,
		},
		Catalog: Catalog{
			Path:     "vtimezones.ndjson",
			Validate: false,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
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
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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

	return app, nil
}
