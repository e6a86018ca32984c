package storage

import (
	"fmt"
	"net/url"
)

// Config is parsed from a storage uri, `memory://` or `file:///path/to/db`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "memory":
		return &Config{Scheme: "memory"}, nil
	case "file":
		if len(parsed.Path) < 1 {
			return nil, fmt.Errorf("empty path for file storage: %q", s)
		}
		return &Config{Scheme: "file", Path: parsed.Path}, nil
	}

	return nil, fmt.Errorf("unsupported storage scheme: %q", parsed.Scheme)
}

func (c *Config) String() string {
	if c.Scheme == "memory" {
		return "memory://"
	}
	return fmt.Sprintf("%s://%s", c.Scheme, c.Path)
}
