package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/shadowdrill/utils"
)

// appConfig is the resolved configuration of one run.
type appConfig struct {
	Sentences  string      `mapstructure:"sentences"   validate:"required"`
	AudioDir   string      `mapstructure:"audio_dir"   validate:"required"`
	Mode       string      `mapstructure:"mode"        validate:"oneof=repeating shadowing"`
	Store      string      `mapstructure:"store"       validate:"required"`
	Volume     float64     `mapstructure:"volume"      validate:"gte=0,lte=1"`
	SampleRate int         `mapstructure:"sample_rate" validate:"oneof=44100 48000"`
	Mouse      bool        `mapstructure:"mouse"`
	Debug      bool        `mapstructure:"debug"`
	Cache      cacheConfig `mapstructure:"cache"`
}

type cacheConfig struct {
	Dir      string `mapstructure:"dir"`
	MemoryMB int    `mapstructure:"memory_mb" validate:"gte=1,lte=4096"`
	DiskMB   int    `mapstructure:"disk_mb"   validate:"gte=0,lte=65536"`
}

const mb = 1 << 20

// envKeyReplacer maps nested keys to env names (cache.dir -> SHADOWDRILL_CACHE_DIR).
var envKeyReplacer = strings.NewReplacer(".", "_")

var validate = newValidator()

// newValidator reports fields by their config key.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

func setConfigDefaults(v *viper.Viper) {
	scope := gap.NewScope(gap.User, appName)
	dataDir, err := scope.DataPath("")
	if err != nil {
		dataDir = filepath.Join("~", "."+appName)
	}
	cacheDir, err := scope.CacheDir()
	if err != nil {
		cacheDir = filepath.Join(dataDir, "cache")
	}

	v.SetDefault("sentences", "sentences.tsv")
	v.SetDefault("audio_dir", "audio")
	v.SetDefault("mode", "repeating")
	v.SetDefault("store", filepath.Join(dataDir, appName+".db"))
	v.SetDefault("volume", 1.0)
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("mouse", false)
	v.SetDefault("debug", false)
	v.SetDefault("cache.dir", filepath.Join(cacheDir, "clips"))
	v.SetDefault("cache.memory_mb", 64)
	v.SetDefault("cache.disk_mb", 512)
}

// loadConfig reads v into an appConfig, expands paths and validates it.
func loadConfig(v *viper.Viper) (appConfig, error) {
	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode configuration: %w", err)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if !utils.IsURL(cfg.Sentences) && cfg.Sentences != "-" {
		cfg.Sentences = utils.ExpandPath(cfg.Sentences)
	}
	cfg.AudioDir = utils.ExpandPath(cfg.AudioDir)
	cfg.Store = utils.ExpandPath(cfg.Store)
	cfg.Cache.Dir = utils.ExpandPath(cfg.Cache.Dir)

	if err := validate.Struct(cfg); err != nil {
		return cfg, configError(err)
	}
	return cfg, nil
}

// configError turns validator output into one line per bad key.
func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := strings.TrimPrefix(fe.Namespace(), "appConfig.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", name, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", name, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
