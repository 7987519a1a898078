package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is looked up in the working directory when --config is not given.
const DefaultConfigFile = "config.yml"

type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Sonar      Sonar      `yaml:"sonar"`
	Repair     Repair     `yaml:"repair"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Sonar describes the SonarQube instance findings are fetched from.
type Sonar struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	ProjectKey     string `yaml:"project_key"`
	RuleRepository string `yaml:"rule_repository"`
	PageSize       int    `yaml:"page_size"`
	Filter         string `yaml:"filter"`
}

// Repair holds defaults for the repair command. Command line flags win over these values.
type Repair struct {
	Rules        []string `yaml:"rules"`
	SourceFolder string   `yaml:"source_folder"`
	OutputFolder string   `yaml:"output_folder"`
	SarifOutput  string   `yaml:"sarif_output"`
}

// ValidateConfigPath checks that path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads the configuration file. An empty path, or the default file
// name when no such file exists, yields an empty configuration so every value
// falls back to its default.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		return cfg, nil
	}
	if configPath == DefaultConfigFile {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
