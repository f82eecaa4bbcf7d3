package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fyerfyer/pdf-extract-tool/internal/document"
	"github.com/fyerfyer/pdf-extract-tool/internal/models"
	"github.com/fyerfyer/pdf-extract-tool/internal/repository"
	"github.com/fyerfyer/pdf-extract-tool/pkg/storage"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// RangeResult 单个页面范围的处理结果
type RangeResult struct {
	Range         document.PageRange // 请求的范围
	Status        models.RangeStatus // 处理状态
	Reason        string             // 跳过或失败的原因
	OutputPath    string             // 输出PDF路径
	CompanionPath string             // 伴随笔记文件路径
}

// Summary 一次提取运行的汇总结果
type Summary struct {
	SourcePath string        // 源PDF路径
	TotalPages int           // 源PDF总页数
	Offset     int           // 本次运行使用的偏移量
	Requested  int           // 请求的范围数量
	Extracted  int           // 成功提取的范围数量
	Skipped    int           // 被跳过的范围数量
	Failed     int           // 提取失败的范围数量
	Results    []RangeResult // 每个范围的处理结果，按请求顺序
}

// ExtractService 页面提取服务
// 负责从源PDF中按范围切出新PDF并创建伴随笔记文件
type ExtractService struct {
	conf   *model.Configuration            // pdfcpu配置
	repo   repository.ExtractionRepository // 提取历史仓储，可为空
	logger *logrus.Logger                  // 日志记录器
}

// ExtractOption 提取服务配置选项
type ExtractOption func(*ExtractService)

// NewExtractService 创建一个新的页面提取服务
func NewExtractService(opts ...ExtractOption) *ExtractService {
	srv := &ExtractService{
		conf:   model.NewDefaultConfiguration(), // 默认pdfcpu配置
		logger: logrus.New(),                    // 默认日志记录器
	}

	// 应用配置选项
	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) ExtractOption {
	return func(s *ExtractService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRepository 设置提取历史仓储
func WithRepository(repo repository.ExtractionRepository) ExtractOption {
	return func(s *ExtractService) {
		s.repo = repo
	}
}

// WithConfiguration 设置pdfcpu配置
func WithConfiguration(conf *model.Configuration) ExtractOption {
	return func(s *ExtractService) {
		if conf != nil {
			s.conf = conf
		}
	}
}

// Extract 从源PDF中提取指定页面范围
// 每个范围独立处理，单个范围的跳过或失败不影响其他范围；
// 只有源文件不存在或无法解析才会中止整次运行
func (s *ExtractService) Extract(ctx context.Context, sourcePath string, ranges []document.PageRange, offset int) (*Summary, error) {
	// 打开源PDF，不存在或无法解析时直接返回
	src, err := document.OpenSource(sourcePath)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"source":      src.Path,
		"total_pages": src.TotalPages,
		"offset":      offset,
		"ranges":      len(ranges),
	}).Info("Source PDF loaded")

	// 输出文件写在源文件所在目录
	store := storage.NewOutputStore(src.Dir(), src.Ext())

	summary := &Summary{
		SourcePath: src.Path,
		TotalPages: src.TotalPages,
		Offset:     offset,
		Requested:  len(ranges),
	}

	// 按请求顺序依次处理每个范围
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := s.extractRange(src, store, r, offset)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case models.RangeStatusExtracted:
			summary.Extracted++
		case models.RangeStatusSkipped:
			summary.Skipped++
		case models.RangeStatusFailed:
			summary.Failed++
		}
	}

	// 提取历史记录尽力而为，失败不影响运行结果
	s.recordRun(summary)

	s.logger.WithFields(logrus.Fields{
		"extracted": summary.Extracted,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Infof("Page extraction finished: %d of %d ranges extracted", summary.Extracted, summary.Requested)

	return summary, nil
}

// extractRange 处理单个页面范围
func (s *ExtractService) extractRange(src *document.Source, store *storage.OutputStore, r document.PageRange, offset int) RangeResult {
	result := RangeResult{Range: r}

	// 校验应用偏移量后的范围
	if reason := r.Validate(offset, src.TotalPages); reason != document.SkipNone {
		result.Status = models.RangeStatusSkipped
		result.Reason = reason.String()
		s.logger.WithFields(logrus.Fields{
			"range":       fmt.Sprintf("%d-%d", r.Start, r.End),
			"name":        r.Name,
			"offset":      offset,
			"total_pages": src.TotalPages,
		}).Warnf("Skipping range: %s", reason)
		return result
	}

	start, end := r.Effective(offset)
	outputPath := store.DocumentPath(r.Name)

	// 按升序复制范围内的页面到新PDF，已存在同名文件时直接覆盖
	selectedPages := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.TrimFile(src.Path, outputPath, selectedPages, s.conf); err != nil {
		result.Status = models.RangeStatusFailed
		result.Reason = err.Error()
		s.logger.WithFields(logrus.Fields{
			"range": fmt.Sprintf("%d-%d", r.Start, r.End),
			"name":  r.Name,
		}).Errorf("Failed to save page range: %v", err)
		return result
	}

	result.Status = models.RangeStatusExtracted
	result.OutputPath = outputPath
	s.logger.Infof("Saved pages %d-%d to %s", r.Start, r.End, outputPath)

	// 创建伴随笔记文件，失败不影响已生成的PDF
	companionPath, err := store.WriteCompanion(r.Name)
	if err != nil {
		s.logger.Errorf("Failed to create companion file for %s: %v", r.Name, err)
	} else {
		result.CompanionPath = companionPath
		s.logger.Infof("Created companion file: %s", companionPath)
	}

	return result
}

// recordRun 将运行结果写入提取历史
// 未配置仓储时跳过，写入失败只记录警告
func (s *ExtractService) recordRun(summary *Summary) {
	if s.repo == nil {
		return
	}

	run := &models.ExtractionRun{
		SourcePath:     summary.SourcePath,
		SourcePages:    summary.TotalPages,
		PageOffset:     summary.Offset,
		RequestedCount: summary.Requested,
		ExtractedCount: summary.Extracted,
		SkippedCount:   summary.Skipped,
		FailedCount:    summary.Failed,
	}

	for _, result := range summary.Results {
		rangeRecord := models.ExtractionRange{
			StartPage:     result.Range.Start,
			EndPage:       result.Range.End,
			Name:          result.Range.Name,
			Status:        result.Status,
			Reason:        result.Reason,
			OutputPath:    result.OutputPath,
			CompanionPath: result.CompanionPath,
		}

		// 把实际使用的页面范围存进元数据
		if result.Status == models.RangeStatusExtracted {
			effStart, effEnd := result.Range.Effective(summary.Offset)
			if meta, err := json.Marshal(map[string]int{
				"effective_start": effStart,
				"effective_end":   effEnd,
			}); err == nil {
				rangeRecord.Metadata = meta
			}
		}

		run.Ranges = append(run.Ranges, rangeRecord)
	}

	if err := s.repo.SaveRun(run); err != nil {
		s.logger.Warnf("Failed to record extraction run: %v", err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
	}).Debug("Extraction run recorded")
}
