package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Search     SearchConfig `yaml:"search"`
	Topics     []string     `yaml:"topics"`
	WindowDays int          `yaml:"window_days"` // 检索窗口天数，默认 30
	Depth      string       `yaml:"depth"`       // quick / default / deep
	Output     string       `yaml:"output"`      // 结果 JSON 输出路径
	Log        LogConfig    `yaml:"log"`
	DB         DBConfig     `yaml:"db"`
}

// SearchConfig 搜索后端相关配置
type SearchConfig struct {
	Provider   string           `yaml:"provider"` // Web 搜索提供方: perplexity / tavily
	Perplexity PerplexityConfig `yaml:"perplexity"`
	Tavily     TavilyConfig     `yaml:"tavily"`
}

// PerplexityConfig Perplexity Sonar 配置
type PerplexityConfig struct {
	APIKey string `yaml:"api_key"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置。API Key 允许用环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		cfg.Search.Perplexity.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Search.Tavily.APIKey = v
	}

	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	if cfg.Depth == "" {
		cfg.Depth = "default"
	}
	if cfg.Output == "" {
		cfg.Output = "trend_report.json"
	}

	return &cfg, nil
}

// Validate 检查缺失的必填项
func (c *Config) Validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("配置错误: 未设置检索主题 (topics)")
	}
	if c.Search.Tavily.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 tavily api key (Reddit 检索依赖 Tavily)")
	}
	if c.Search.Provider == "perplexity" && c.Search.Perplexity.APIKey == "" {
		return fmt.Errorf("配置错误: provider 为 perplexity 但未设置 api key")
	}
	return nil
}
