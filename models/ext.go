package models

import (
	"net/http"
	"time"
)

// ClientConfig is the on-disk client configuration.
type ClientConfig struct {
	// device name -> "code:hexkey"
	Devices map[string]string `yaml:"devices"`

	HTTPProxy   string        `yaml:"http_proxy"`
	HTTPSProxy  string        `yaml:"https_proxy"`
	NoProxy     string        `yaml:"no_proxy"`
	CookiesFile string        `yaml:"cookies_file"`
	Timeout     time.Duration `yaml:"timeout"`

	BaseURL          string `yaml:"base_url"`
	DiscoverURL      string `yaml:"discover_url"`
	PlaylistDeviceID int    `yaml:"playlist_device_id"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
