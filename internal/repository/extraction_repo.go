package repository

import (
	"errors"
	"fmt"

	"github.com/fyerfyer/pdf-extract-tool/internal/database"
	"github.com/fyerfyer/pdf-extract-tool/internal/models"
	"gorm.io/gorm"
)

// extractionRepository 提取历史仓储实现
type extractionRepository struct {
	db *gorm.DB // 数据库连接
}

// NewExtractionRepository 创建提取历史仓储实例
func NewExtractionRepository() ExtractionRepository {
	return &extractionRepository{
		db: database.MustDB(),
	}
}

// NewExtractionRepositoryWithDB 使用指定的数据库连接创建仓储实例
func NewExtractionRepositoryWithDB(db *gorm.DB) ExtractionRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &extractionRepository{
		db: db,
	}
}

// SaveRun 保存一次提取运行及其所有范围记录
func (r *extractionRepository) SaveRun(run *models.ExtractionRun) error {
	if run == nil {
		return errors.New("extraction run cannot be nil")
	}
	if run.SourcePath == "" {
		return errors.New("source path cannot be empty")
	}

	// 关联的范围记录随运行记录一起写入
	return r.db.Create(run).Error
}

// GetRun 根据ID获取提取运行记录
func (r *extractionRepository) GetRun(id string) (*models.ExtractionRun, error) {
	if id == "" {
		return nil, errors.New("run ID cannot be empty")
	}

	var run models.ExtractionRun
	err := r.db.Preload("Ranges").Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("extraction run not found: %s", id)
		}
		return nil, err
	}
	return &run, nil
}

// ListRuns 列出提取运行记录，按时间倒序，支持分页
func (r *extractionRepository) ListRuns(offset, limit int) ([]*models.ExtractionRun, int64, error) {
	var runs []*models.ExtractionRun
	var total int64

	query := r.db.Model(&models.ExtractionRun{})

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 应用分页
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

// ListRangesByRun 获取一次运行的所有范围记录，按创建顺序返回
func (r *extractionRepository) ListRangesByRun(runID string) ([]*models.ExtractionRange, error) {
	if runID == "" {
		return nil, errors.New("run ID cannot be empty")
	}

	var ranges []*models.ExtractionRange
	err := r.db.Where("run_id = ?", runID).Order("id ASC").Find(&ranges).Error
	if err != nil {
		return nil, err
	}

	return ranges, nil
}
