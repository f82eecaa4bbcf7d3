package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Source   SourceConfig   `mapstructure:"source" validate:"required"`
	Ranges   []RangeConfig  `mapstructure:"ranges" validate:"dive"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
}

// SourceConfig 源PDF配置
type SourceConfig struct {
	Path   string `mapstructure:"path" validate:"required"` // 源PDF文件路径
	Offset int    `mapstructure:"offset"`                   // 页码偏移量，用于修正书籍页码和PDF页码的差异
}

// RangeConfig 页面范围配置
// 表示从Start到End的页面范围（包含两端），页面编号从1开始
type RangeConfig struct {
	Start int    `mapstructure:"start"`                    // 起始页
	End   int    `mapstructure:"end"`                      // 结束页
	Name  string `mapstructure:"name" validate:"required"` // 输出文件基础名
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`        // 日志级别：debug/info/warn/error
	Format     string `mapstructure:"format"`       // 日志格式：text 或 json
	File       string `mapstructure:"file"`         // 日志文件路径，为空时只输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // 单个日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups"`  // 保留的旧日志文件数量
	MaxAgeDays int    `mapstructure:"max_age_days"` // 日志文件保留天数
}

// DatabaseConfig 提取历史数据库配置
type DatabaseConfig struct {
	Enable bool   `mapstructure:"enable"` // 是否记录提取历史
	Path   string `mapstructure:"path"`   // SQLite数据库文件路径
}

// Load 从文件和环境变量加载配置
// 不做结构校验，调用方在应用完命令行覆盖后再调用Validate
func Load(configPath string) (*Config, error) {
	var config Config

	// 设置默认配置路径
	if configPath == "" {
		configPath = "config.yaml" // 默认在当前目录寻找config.yaml
	}

	// 初始化viper
	v := viper.New()

	// 设置配置文件路径和类型
	v.SetConfigFile(configPath)

	// 尝试读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，创建一个默认配置文件
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
			setDefaults(v)
			// 创建默认配置文件
			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err == nil {
				if err := v.WriteConfigAs(configPath); err != nil {
					log.Printf("Warning: Could not write default config to %s: %v", configPath, err)
				}
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	// 设置默认值
	setDefaults(v)

	// 支持环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 解析配置到结构体
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	return &config, nil
}

// Validate 校验配置的结构有效性
// 页面范围的边界问题不在这里检查，偏移量可能在运行时修正它们
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	return nil
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 源文件默认配置
	v.SetDefault("source.path", "")
	v.SetDefault("source.offset", 0)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// 历史数据库默认配置
	v.SetDefault("database.enable", true)
	v.SetDefault("database.path", "data/extract.db")
}
