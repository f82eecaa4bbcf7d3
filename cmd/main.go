package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/fyerfyer/pdf-extract-tool/config"
	"github.com/fyerfyer/pdf-extract-tool/internal/database"
	"github.com/fyerfyer/pdf-extract-tool/internal/document"
	"github.com/fyerfyer/pdf-extract-tool/internal/repository"
	"github.com/fyerfyer/pdf-extract-tool/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 命令行选项
type flags struct {
	ConfigFile string // 配置文件路径
	SourcePath string // 源PDF路径，覆盖配置文件
	LogLevel   string // 日志级别，覆盖配置文件
}

func main() {
	// 清理工作通过defer完成，统一从run返回退出码
	os.Exit(run())
}

func run() int {
	// 解析命令行参数
	f := parseFlags()

	// 加载.env文件（如果存在）
	_ = godotenv.Load()

	// 加载配置文件
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// 命令行参数优先于配置文件
	if f.SourcePath != "" {
		cfg.Source.Path = f.SourcePath
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}

	// 应用完命令行覆盖后再校验配置
	if err := config.Validate(cfg); err != nil {
		log.Printf("Invalid config: %v", err)
		return 1
	}

	// 初始化日志
	logger := setupLogger(cfg.Log)
	logger.Info("Starting PDF page extraction...")

	// 初始化提取历史数据库（尽力而为，失败不阻止提取）
	var repo repository.ExtractionRepository
	if cfg.Database.Enable {
		if err := setupDatabase(cfg, logger); err != nil {
			logger.Warnf("Failed to initialize history database: %v", err)
		} else {
			defer database.Close()
			repo = repository.NewExtractionRepository()
		}
	}

	// 把配置中的范围转换成提取请求
	ranges := make([]document.PageRange, 0, len(cfg.Ranges))
	for _, r := range cfg.Ranges {
		ranges = append(ranges, document.PageRange{
			Start: r.Start,
			End:   r.End,
			Name:  r.Name,
		})
	}

	// 创建提取服务
	extractor := services.NewExtractService(
		services.WithLogger(logger),
		services.WithRepository(repo),
	)

	// 执行提取
	summary, err := extractor.Extract(context.Background(), cfg.Source.Path, ranges, cfg.Source.Offset)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrSourceNotFound):
			logger.Errorf("Source PDF not found: %s", cfg.Source.Path)
		case errors.Is(err, document.ErrSourceInvalid):
			logger.Errorf("Failed to read source PDF: %v", err)
		default:
			logger.Errorf("Page extraction failed: %v", err)
		}
		return 1
	}

	logger.Infof("Page extraction complete: %d of %d ranges extracted", summary.Extracted, summary.Requested)
	return 0
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to config file")
	flag.StringVar(&f.SourcePath, "source", "", "Source PDF path (overrides config)")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	flag.Parse()
	return f
}

// setupLogger 设置日志系统
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	// 设置日志级别
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// 设置日志格式
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// 配置了日志文件时，同时输出到标准输出和滚动日志文件
	if cfg.File != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}))
	}

	return logger
}

// setupDatabase 设置提取历史数据库
func setupDatabase(cfg *config.Config, logger *logrus.Logger) error {
	dbConfig := database.DefaultConfig()
	if cfg.Database.Path != "" {
		dbConfig.DSN = cfg.Database.Path
	}

	return database.Setup(dbConfig, logger)
}
