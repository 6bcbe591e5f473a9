package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the config dir.
const FileName = "textfield.yaml"

const (
	defaultAddr        = "127.0.0.1:8790"
	defaultCallTimeout = 5 * time.Second
)

// Config represents the optional textfield.yaml configuration.
type Config struct {
	Plugin   PluginConfig   `yaml:"plugin"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Platform PlatformConfig `yaml:"platform"`
}

// PluginConfig contains bridge protocol settings.
type PluginConfig struct {
	Channel         string `yaml:"channel,omitempty"`
	ViewType        string `yaml:"viewType,omitempty"`
	DefaultHint     string `yaml:"defaultHint,omitempty"`
	ProtocolVersion string `yaml:"protocolVersion,omitempty"`
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	Addr        string        `yaml:"addr,omitempty"`
	CallTimeout time.Duration `yaml:"callTimeout,omitempty"`
	SendQueue   int           `yaml:"sendQueue,omitempty"`
	// CallRate limits host calls per second. Zero means unlimited.
	CallRate  float64 `yaml:"callRate,omitempty"`
	CallBurst int     `yaml:"callBurst,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
	// Verbose adds stack traces to reported bridge errors.
	Verbose bool `yaml:"verbose,omitempty"`
	// Trace writes command spans to stderr.
	Trace bool `yaml:"trace,omitempty"`
}

// PlatformConfig describes the platform reported by getPlatformVersion.
type PlatformConfig struct {
	Name    string `yaml:"name,omitempty"`
	Release string `yaml:"release,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root            string
	Channel         string
	ViewType        string
	DefaultHint     string
	ProtocolVersion string
	PlatformVersion string
	Addr            string
	CallTimeout     time.Duration
	SendQueue       int
	CallRate        float64
	CallBurst       int
	LogLevel        zapcore.Level
	LogDevelopment  bool
	LogVerbose      bool
	Trace           bool
}

// LoadOptional reads textfield.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads textfield.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Root = dir
	return r, nil
}

// Resolve fills defaults and validates the configuration. Empty strings
// for channel, view type, hint and platform are left for the plugin to
// default.
func (c *Config) Resolve() (*Resolved, error) {
	protocol, err := canonicalVersion(c.Plugin.ProtocolVersion)
	if err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	if s := strings.TrimSpace(c.Log.Level); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
	}

	addr := strings.TrimSpace(c.Server.Addr)
	if addr == "" {
		addr = defaultAddr
	}

	timeout := c.Server.CallTimeout
	if timeout < 0 {
		return nil, fmt.Errorf("server.callTimeout must not be negative (got %s)", timeout)
	}
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	if c.Server.SendQueue < 0 {
		return nil, fmt.Errorf("server.sendQueue must not be negative (got %d)", c.Server.SendQueue)
	}
	if c.Server.CallRate < 0 || c.Server.CallBurst < 0 {
		return nil, fmt.Errorf("server.callRate and server.callBurst must not be negative")
	}

	channel := strings.TrimSpace(c.Plugin.Channel)
	if strings.ContainsAny(channel, " \t\n") {
		return nil, fmt.Errorf("plugin.channel must not contain whitespace (got %q)", channel)
	}

	return &Resolved{
		Channel:         channel,
		ViewType:        strings.TrimSpace(c.Plugin.ViewType),
		DefaultHint:     c.Plugin.DefaultHint,
		ProtocolVersion: protocol,
		PlatformVersion: platformVersion(c.Platform),
		Addr:            addr,
		CallTimeout:     timeout,
		SendQueue:       c.Server.SendQueue,
		CallRate:        c.Server.CallRate,
		CallBurst:       c.Server.CallBurst,
		LogLevel:        level,
		LogDevelopment:  c.Log.Development,
		LogVerbose:      c.Log.Verbose,
		Trace:           c.Log.Trace,
	}, nil
}

// canonicalVersion validates a semantic version, accepting a missing "v"
// prefix, and returns its canonical form. Empty selects the default.
func canonicalVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("plugin.protocolVersion must be a semantic version (got %q)", v)
	}
	return semver.Canonical(v), nil
}

func platformVersion(p PlatformConfig) string {
	name := strings.TrimSpace(p.Name)
	release := strings.TrimSpace(p.Release)
	switch {
	case name == "":
		return ""
	case release == "":
		return name
	default:
		return name + " " + release
	}
}

// Compatible reports whether a host speaking hostVersion can talk to a
// bridge speaking bridgeVersion: both must share a major version.
func Compatible(bridgeVersion, hostVersion string) bool {
	b, err := canonicalVersion(bridgeVersion)
	if err != nil || b == "" {
		return false
	}
	h, err := canonicalVersion(hostVersion)
	if err != nil || h == "" {
		return false
	}
	return semver.Major(b) == semver.Major(h)
}
