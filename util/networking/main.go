package networking

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"huludl/models"
	"huludl/util"
)

const defaultTimeout = 60 * time.Second

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once
)

func GetDefaultHTTPClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{
			Transport: GetBaseTransport(),
			Timeout:   defaultTimeout,
		}
	})
	return defaultClient
}

func GetBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ResponseHeaderTimeout: 10 * time.Second,
		DisableCompression:    false,
	}
}

// NewClientFromConfig builds the client shared by every request of a run:
// configured proxies, timeout and the cookies file loaded into a jar.
func NewClientFromConfig(cfg *models.ClientConfig) (*http.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := GetBaseTransport()
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		configureProxyTransport(transport, cfg)
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	if cfg.CookiesFile != "" {
		cookies, err := util.ParseCookieFile(cfg.CookiesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load cookies: %w", err)
		}
		jar, err := util.NewCookieJar(cookies)
		if err != nil {
			return nil, err
		}
		client.Jar = jar
	}
	return client, nil
}
