package repository

import "github.com/fyerfyer/pdf-extract-tool/internal/models"

// ExtractionRepository 提取历史仓储接口
// 负责提取运行记录的存储和检索
type ExtractionRepository interface {
	// SaveRun 保存一次提取运行及其所有范围记录
	SaveRun(run *models.ExtractionRun) error

	// GetRun 根据ID获取提取运行记录（包含范围记录）
	GetRun(id string) (*models.ExtractionRun, error)

	// ListRuns 列出提取运行记录，支持分页
	ListRuns(offset, limit int) ([]*models.ExtractionRun, int64, error)

	// ListRangesByRun 获取一次运行的所有范围记录
	ListRangesByRun(runID string) ([]*models.ExtractionRange, error)
}
