package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8080
	DefaultBasePath    = "/"
	DefaultGraphQLPath = "/graphql"
)

// Config holds all configuration details
type Config struct {
	Host        string            `yaml:"host"`
	Port        int               `yaml:"port"`
	BasePath    string            `yaml:"basePath"`
	GraphQLPath string            `yaml:"graphqlPath"`
	DataService DataServiceConfig `yaml:"dataService"`
}

// DataServiceConfig defines where the companies and users REST service lives
type DataServiceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("error reading config file")
		return nil, err
	}

	return ParseConfig(raw)
}

// ParseConfig renders raw as a template over the environment, then unmarshals
// the resulting YAML and applies defaults.
func ParseConfig(raw []byte) (*Config, error) {
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports configuration that cannot be used to start the gateway.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataService.URL) == "" {
		return errors.New("dataService.url is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataService.Timeout < 0 {
		return fmt.Errorf("invalid dataService.timeout %s", c.DataService.Timeout)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.GraphQLPath == "" {
		c.GraphQLPath = DefaultGraphQLPath
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
