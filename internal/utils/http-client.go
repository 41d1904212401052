package utils

import (
	"net/http"
	"net/url"
	"time"
)

type VigilHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

// NewVigilHTTPClient builds the shared HTTP client. Archive streams have no
// sensible overall deadline, so a zero Timeout is honored as "no deadline";
// callers bound those transfers with cancellation and idle watchdogs instead.
func NewVigilHTTPClient(cfg HTTPClientConfig) *VigilHTTPClient {
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 60 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		DisableCompression:  true, // keep Content-Length trustworthy for progress
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err == nil {
			if cfg.ProxyUsername != "" {
				if cfg.ProxyPassword != "" {
					proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
				} else {
					proxyURL.User = url.User(cfg.ProxyUsername)
				}
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &VigilHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (v *VigilHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if v.config.UserAgent != "" {
		req.Header.Set("User-Agent", v.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", ToolUserAgent)
	}
	for k, val := range v.config.Headers {
		req.Header.Set(k, val)
	}
	return v.client.Do(req)
}
