package networking

import (
	"net/http"
	"net/url"
	"strings"

	"huludl/models"

	"go.uber.org/zap"
)

func configureProxyTransport(
	transport *http.Transport,
	cfg *models.ClientConfig,
) {
	var httpProxyURL, httpsProxyURL *url.URL
	var err error

	if cfg.HTTPProxy != "" {
		httpProxyURL, err = url.Parse(cfg.HTTPProxy)
		if err != nil {
			zap.S().Warnf("invalid HTTP proxy URL '%s': %v", cfg.HTTPProxy, err)
		}
	}
	if cfg.HTTPSProxy != "" {
		httpsProxyURL, err = url.Parse(cfg.HTTPSProxy)
		if err != nil {
			zap.S().Warnf("invalid HTTPS proxy URL '%s': %v", cfg.HTTPSProxy, err)
		}
	}
	if httpProxyURL == nil && httpsProxyURL == nil {
		return
	}
	noProxyList := parseNoProxyList(cfg.NoProxy)
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return selectProxy(req.URL, httpProxyURL, httpsProxyURL, noProxyList), nil
	}
}

func selectProxy(target *url.URL, httpProxyURL, httpsProxyURL *url.URL, noProxyList []string) *url.URL {
	if shouldBypassProxy(target.Hostname(), noProxyList) {
		return nil
	}
	if target.Scheme == "https" && httpsProxyURL != nil {
		return httpsProxyURL
	}
	if target.Scheme == "http" && httpProxyURL != nil {
		return httpProxyURL
	}
	if httpsProxyURL != nil {
		return httpsProxyURL
	}
	return httpProxyURL
}

func parseNoProxyList(noProxy string) []string {
	if noProxy == "" {
		return nil
	}
	list := strings.Split(noProxy, ",")
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	return list
}

func shouldBypassProxy(host string, noProxyList []string) bool {
	for _, p := range noProxyList {
		if p == "" {
			continue
		}
		if p == host || (strings.HasPrefix(p, ".") && strings.HasSuffix(host, p)) {
			return true
		}
	}
	return false
}
