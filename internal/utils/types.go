package utils

import (
	"net/http"
	"time"
)

type HTTPClientConfig struct {
	Timeout       time.Duration // overall request deadline; 0 leaves streams unbounded
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
	Headers       map[string]string
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BulkManifest is the YAML file format for scripted bulk downloads. Name
// overrides the generated archive filename when set.
type BulkManifest struct {
	Name       string   `yaml:"name"`
	Recordings []string `yaml:"recordings"`
}
