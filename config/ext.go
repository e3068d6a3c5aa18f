package config

import (
	"fmt"
	"os"

	"huludl/ext/hulu"
	"huludl/models"
	"huludl/util"

	"gopkg.in/yaml.v3"
)

const defaultPlaylistDeviceID = 210

// LoadClientConfig reads the YAML client config at path. A missing file
// yields the defaults. Values set through the environment win.
func LoadClientConfig(path string, env *models.EnvConfig) (*models.ClientConfig, error) {
	cfg := &models.ClientConfig{
		Devices: make(map[string]string),
	}

	_, err := os.Stat(path)
	if err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed reading config file: %w", err)
	}

	if env != nil {
		applyEnv(cfg, env)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = hulu.DefaultBaseURL
	}
	if cfg.DiscoverURL == "" {
		cfg.DiscoverURL = hulu.DefaultDiscoverURL
	}
	if cfg.PlaylistDeviceID == 0 {
		cfg.PlaylistDeviceID = defaultPlaylistDeviceID
	}
	if cfg.Devices == nil {
		cfg.Devices = make(map[string]string)
	}
	return cfg, nil
}

func applyEnv(cfg *models.ClientConfig, env *models.EnvConfig) {
	if env.HTTPProxy != "" {
		cfg.HTTPProxy = env.HTTPProxy
	}
	if env.HTTPSProxy != "" {
		cfg.HTTPSProxy = env.HTTPSProxy
	}
	if env.NoProxy != "" {
		cfg.NoProxy = env.NoProxy
	}
	if env.CookiesFile != "" {
		cfg.CookiesFile = env.CookiesFile
	}
	if env.HTTPTimeout > 0 {
		cfg.Timeout = env.HTTPTimeout
	}
}

// GetDevice looks up a configured device by name.
func GetDevice(cfg *models.ClientConfig, name string) (*hulu.Device, error) {
	value, exists := cfg.Devices[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownDevice, name)
	}
	device, err := hulu.ParseDevice(value)
	if err != nil {
		return nil, fmt.Errorf("invalid device %s: %w", name, err)
	}
	return device, nil
}
