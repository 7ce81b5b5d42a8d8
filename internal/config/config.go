// Package config loads command line defaults from configuration files,
// dotenv files and the environment.
//
// Precedence, highest first: bound command line flags, SPECGEN_* variables
// (including those set by .env.local and .env), .specgen.yaml, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/syssam/specgen/internal/debug"
)

// Configuration keys.
const (
	KeyInput     = "input"
	KeyOutput    = "output"
	KeyTargets   = "targets"
	KeyGoPackage = "go_package"
	KeyWorkers   = "workers"
	KeyDebug     = "debug"
	KeyDSN       = "dsn"
	KeyDialect   = "dialect"
)

const (
	// Name is the configuration file name, without extension.
	Name = ".specgen"
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "SPECGEN"
)

// Config holds the resolved settings.
type Config struct {
	Input     string
	Output    string
	Targets   []string
	GoPackage string
	Workers   int
	Debug     bool
	DSN       string
	Dialect   string
	// File is the configuration file used, if any.
	File string
}

// Loader resolves a Config.
type Loader struct {
	fs   afero.Fs
	dir  string
	home string
	v    *viper.Viper
}

// NewLoader returns a loader reading from fs. A nil fs selects the OS
// filesystem. Configuration and dotenv files are looked up in the working
// directory first.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	v := viper.New()
	v.SetFs(fs)
	return &Loader{fs: fs, dir: ".", v: v}
}

// WithDir sets the working directory searched for configuration and
// dotenv files.
func (l *Loader) WithDir(dir string) *Loader {
	l.dir = dir
	return l
}

// WithHome overrides the home directory.
func (l *Loader) WithHome(home string) *Loader {
	l.home = home
	return l
}

// Viper returns the underlying viper instance, e.g. to bind flags.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load reads the dotenv files and the configuration file, then resolves
// every key. A missing configuration file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadEnv(); err != nil {
		return nil, err
	}
	v := l.v
	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(l.dir)
	if home := l.homeDir(); home != "" {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "specgen"))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyOutput, "./generated")
	v.SetDefault(KeyTargets, []string{"sql", "hooks"})
	v.SetDefault(KeyGoPackage, "models")
	v.SetDefault(KeyWorkers, runtime.GOMAXPROCS(0))
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyDialect, "postgres")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := &Config{
		Input:     v.GetString(KeyInput),
		Output:    v.GetString(KeyOutput),
		Targets:   splitList(v.GetStringSlice(KeyTargets)),
		GoPackage: v.GetString(KeyGoPackage),
		Workers:   v.GetInt(KeyWorkers),
		Debug:     v.GetBool(KeyDebug),
		DSN:       v.GetString(KeyDSN),
		Dialect:   v.GetString(KeyDialect),
		File:      v.ConfigFileUsed(),
	}
	debug.Debug("config loaded", "file", cfg.File, "output", cfg.Output, "targets", cfg.Targets)
	return cfg, nil
}

func (l *Loader) homeDir() string {
	if l.home != "" {
		return l.home
	}
	home, err := homedir.Dir()
	if err != nil {
		debug.Warn("home directory not found", "error", err)
		return ""
	}
	return home
}

// loadEnv applies .env without overriding the environment, then
// .env.local overriding it.
func (l *Loader) loadEnv() error {
	for _, f := range []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	} {
		p := filepath.Join(l.dir, f.name)
		if ok, _ := afero.Exists(l.fs, p); !ok {
			continue
		}
		file, err := l.fs.Open(p)
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		vars, err := godotenv.Parse(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		for k, val := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		debug.Debug("dotenv loaded", "path", p, "vars", len(vars))
	}
	return nil
}

// splitList flattens comma-separated items, as found in environment
// variables, dropping empty entries.
func splitList(items []string) []string {
	var out []string
	for _, it := range items {
		for _, s := range strings.Split(it, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
