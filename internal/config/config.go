package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/buglloc/adguard-rewriter/internal/hostname"
)

// DefaultPort is used when ADGUARD_PORT is not configured.
const DefaultPort = 80

// envKeys is the fixed environment contract, mapped onto config paths.
// Anything else in the environment is ignored.
var envKeys = map[string]string{
	"ADGUARD_HOST":     "adguard.host",
	"ADGUARD_PORT":     "adguard.port",
	"ADGUARD_USERNAME": "adguard.username",
	"ADGUARD_PASSWORD": "adguard.password",
	"HOSTNAME":         "hostname",
	"HOSTNAMES":        "hostnames",
}

type Adguard struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type Config struct {
	Adguard Adguard `koanf:"adguard"`
	// Hostname is the legacy single-hostname field. It is ignored entirely
	// when Hostnames is set.
	Hostname  string `koanf:"hostname"`
	Hostnames string `koanf:"hostnames"`
}

func LoadConfig(files ...string) (*Config, error) {
	out := Config{
		Adguard: Adguard{
			Port: DefaultPort,
		},
	}

	k := koanf.New(".")
	// Empty values are treated the same as unset variables.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	yamlParser := yaml.Parser()
	for _, fpath := range files {
		if err := k.Load(file.Provider(fpath), yamlParser); err != nil {
			return nil, fmt.Errorf("load %q config: %w", fpath, err)
		}
	}

	return &out, k.Unmarshal("", &out)
}

func (c *Config) Validate() error {
	if c.Adguard.Host == "" {
		return errors.New("adguard host is empty")
	}

	if c.Adguard.Username == "" || c.Adguard.Password == "" {
		return errors.New("adguard credentials are not configured")
	}

	if len(c.HostnameList()) == 0 {
		return errors.New("no hostnames configured: set HOSTNAME or HOSTNAMES")
	}

	return nil
}

// HostnameList returns the hostnames to manage. The comma-separated
// multi-hostname field wins over the legacy single-hostname field.
func (c *Config) HostnameList() []string {
	if c.Hostnames != "" {
		return hostname.Parse(c.Hostnames)
	}

	if name := strings.TrimSpace(c.Hostname); name != "" {
		return []string{name}
	}

	return nil
}

// BaseURL returns the AdGuard Home API address.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Adguard.Host, c.Adguard.Port)
}

// Describe writes the resolved configuration in human-readable form.
// Secrets are masked.
func (c *Config) Describe(w io.Writer) {
	hostnames := "[not configured]"
	if names := c.HostnameList(); len(names) > 0 {
		hostnames = strings.Join(names, ", ")
	}

	username := c.Adguard.Username
	if username == "" {
		username = "[not configured]"
	}

	password := "[not configured]"
	if c.Adguard.Password != "" {
		password = "[configured]"
	}

	_, _ = fmt.Fprintf(w, "AdGuard Home: %s:%d\n", c.Adguard.Host, c.Adguard.Port)
	_, _ = fmt.Fprintf(w, "Hostname(s):  %s\n", hostnames)
	_, _ = fmt.Fprintf(w, "Username:     %s\n", username)
	_, _ = fmt.Fprintf(w, "Password:     %s\n", password)
}
