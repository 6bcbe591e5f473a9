package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/textfield/cmd/textfieldd/internal/config"
	"github.com/go-drift/textfield/pkg/textfield"
	"gopkg.in/yaml.v3"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration textfieldd would run with, after reading
textfield.yaml (if present) and applying defaults.`,
		Usage: "textfieldd config [--config DIR]",
		Run:   runConfig,
	})
}

// effective is the printable form of the resolved configuration.
type effective struct {
	Plugin struct {
		Channel         string `yaml:"channel"`
		ViewType        string `yaml:"viewType"`
		DefaultHint     string `yaml:"defaultHint"`
		ProtocolVersion string `yaml:"protocolVersion"`
		PlatformVersion string `yaml:"platformVersion"`
	} `yaml:"plugin"`
	Server struct {
		Addr        string  `yaml:"addr"`
		CallTimeout string  `yaml:"callTimeout"`
		SendQueue   int     `yaml:"sendQueue,omitempty"`
		CallRate    float64 `yaml:"callRate,omitempty"`
		CallBurst   int     `yaml:"callBurst,omitempty"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
		Verbose     bool   `yaml:"verbose"`
		Trace       bool   `yaml:"trace"`
	} `yaml:"log"`
}

func runConfig(args []string) error {
	cfg, err := config.Resolve(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := pluginOptions(cfg)
	var out effective
	out.Plugin.Channel = opts.Channel
	out.Plugin.ViewType = opts.ViewType
	out.Plugin.DefaultHint = opts.DefaultHint
	out.Plugin.ProtocolVersion = opts.ProtocolVersion
	out.Plugin.PlatformVersion = opts.PlatformVersion
	out.Server.Addr = cfg.Addr
	out.Server.CallTimeout = cfg.CallTimeout.String()
	out.Server.SendQueue = cfg.SendQueue
	out.Server.CallRate = cfg.CallRate
	out.Server.CallBurst = cfg.CallBurst
	out.Log.Level = cfg.LogLevel.String()
	out.Log.Development = cfg.LogDevelopment
	out.Log.Verbose = cfg.LogVerbose
	out.Log.Trace = cfg.Trace

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

// pluginOptions maps the configuration onto plugin options with the
// plugin's own defaults filled in.
func pluginOptions(cfg *config.Resolved) textfield.Options {
	return textfield.NewPlugin(nil, textfield.Options{
		Channel:         cfg.Channel,
		ViewType:        cfg.ViewType,
		PlatformVersion: cfg.PlatformVersion,
		ProtocolVersion: cfg.ProtocolVersion,
		DefaultHint:     cfg.DefaultHint,
	}).Options()
}
