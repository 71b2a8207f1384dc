package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	DefaultDeviceFamily   = "ra"
	DefaultProbeTool      = "e2"
	DefaultPort           = "/dev/ttyACM0"
	DefaultBaudRate       = 115200
	DefaultTargetTriple   = "thumbv7em-none-eabihf"
	DefaultObjcopy        = "rust-objcopy"
	DefaultFlashTool      = "rfp-cli"
	DefaultBuildMode      = "release"
	DefaultCanInterface   = "can0"
	DefaultCanBitrateCode = 8
)

// Target holds per-target overrides.
type Target struct {
	Mode string `json:"mode,omitempty"`
}

// Config holds all ember configuration.
type Config struct {
	DeviceFamily   string            `json:"device_family,omitempty"`
	ProbeTool      string            `json:"probe_tool,omitempty"`
	FlashTool      string            `json:"flash_tool,omitempty"`
	SerialPort     string            `json:"serial_port,omitempty"`
	SerialBaudRate int               `json:"serial_baud_rate,omitempty"`
	TargetTriple   string            `json:"target_triple,omitempty"`
	Objcopy        string            `json:"objcopy,omitempty"`
	BuildMode      string            `json:"build_mode,omitempty"`
	BootloaderHex  string            `json:"bootloader_hex,omitempty"`
	CanDevice      string            `json:"can_device,omitempty"`
	CanInterface   string            `json:"can_interface,omitempty"`
	CanBitrateCode int               `json:"can_bitrate_code,omitempty"`
	Targets        map[string]Target `json:"targets,omitempty"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		DeviceFamily:   DefaultDeviceFamily,
		ProbeTool:      DefaultProbeTool,
		FlashTool:      DefaultFlashTool,
		SerialPort:     DefaultPort,
		SerialBaudRate: DefaultBaudRate,
		TargetTriple:   DefaultTargetTriple,
		Objcopy:        DefaultObjcopy,
		BuildMode:      DefaultBuildMode,
		CanInterface:   DefaultCanInterface,
		CanBitrateCode: DefaultCanBitrateCode,
	}
}

// Load reads and merges global and workspace configs.
// Order: defaults → global (~/.config/ember/config.json) → workspace (.ember/config.json).
func Load(workspaceRoot string) Config {
	cfg := Defaults()

	if home, err := os.UserHomeDir(); err == nil {
		mergeFromFile(&cfg, filepath.Join(home, ".config", "ember", "config.json"))
	}

	if workspaceRoot != "" {
		mergeFromFile(&cfg, filepath.Join(workspaceRoot, ".ember", "config.json"))
	}

	return cfg
}

// Save writes the config to the workspace .ember/config.json by default,
// or to the global config if global is true.
func Save(cfg Config, workspaceRoot string, global bool) error {
	var dir string
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".config", "ember")
	} else {
		dir = filepath.Join(workspaceRoot, ".ember")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// ModeFor returns the build mode for a target: the per-target override when
// set, otherwise the workspace-wide mode.
func (c Config) ModeFor(target string) string {
	if t, ok := c.Targets[target]; ok && t.Mode != "" {
		return t.Mode
	}
	return c.BuildMode
}

func mergeFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	if fileCfg.DeviceFamily != "" {
		cfg.DeviceFamily = fileCfg.DeviceFamily
	}
	if fileCfg.ProbeTool != "" {
		cfg.ProbeTool = fileCfg.ProbeTool
	}
	if fileCfg.FlashTool != "" {
		cfg.FlashTool = fileCfg.FlashTool
	}
	if fileCfg.SerialPort != "" {
		cfg.SerialPort = fileCfg.SerialPort
	}
	if fileCfg.SerialBaudRate != 0 {
		cfg.SerialBaudRate = fileCfg.SerialBaudRate
	}
	if fileCfg.TargetTriple != "" {
		cfg.TargetTriple = fileCfg.TargetTriple
	}
	if fileCfg.Objcopy != "" {
		cfg.Objcopy = fileCfg.Objcopy
	}
	if fileCfg.BuildMode != "" {
		cfg.BuildMode = fileCfg.BuildMode
	}
	if fileCfg.BootloaderHex != "" {
		cfg.BootloaderHex = fileCfg.BootloaderHex
	}
	if fileCfg.CanDevice != "" {
		cfg.CanDevice = fileCfg.CanDevice
	}
	if fileCfg.CanInterface != "" {
		cfg.CanInterface = fileCfg.CanInterface
	}
	if fileCfg.CanBitrateCode != 0 {
		cfg.CanBitrateCode = fileCfg.CanBitrateCode
	}
	if len(fileCfg.Targets) != 0 {
		if cfg.Targets == nil {
			cfg.Targets = map[string]Target{}
		}
		for name, t := range fileCfg.Targets {
			cfg.Targets[name] = t
		}
	}
}
