package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log struct {
		Level    string `yaml:"level"`
		Dir      string `yaml:"dir"`
		Filename string `yaml:"filename"`
	} `yaml:"log"`

	Parser struct {
		Strict *bool `yaml:"strict"`
	} `yaml:"parser"`

	Audit struct {
		Checks []AuditCheck `yaml:"checks"`
	} `yaml:"audit"`
}

// AuditCheck 一条审计检查：对每条解析成功的规则求值的 CEL 表达式
type AuditCheck struct {
	Name        string `yaml:"name"`
	Expression  string `yaml:"expression"`
	Description string `yaml:"description"`
}

var logLevels = map[string]struct{}{
	"DEBUG": {}, "INFO": {}, "WARN": {}, "ERROR": {}, "FATAL": {}, "PANIC": {},
}

// Default 返回无配置文件时的默认配置：INFO 级别、仅控制台日志、严格解析、无审计
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "INFO"
	cfg.Log.Filename = "checker.log"
	return cfg
}

// Strict 解析是否启用严格模式，未配置时默认为真。
// 注意 diff 流程始终严格解析，该开关只影响批量校验
func (c *Config) Strict() bool {
	if c.Parser.Strict == nil {
		return true
	}
	return *c.Parser.Strict
}

func (c *Config) Validate() error {
	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	if c.Log.Dir != "" && c.Log.Filename == "" {
		return fmt.Errorf("log filename is required when log dir is set")
	}
	for i, check := range c.Audit.Checks {
		if check.Name == "" {
			return fmt.Errorf("audit check #%d has no name", i+1)
		}
		if check.Expression == "" {
			return fmt.Errorf("audit check %q has no expression", check.Name)
		}
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
