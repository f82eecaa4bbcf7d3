package repository

import (
	"path/filepath"
	"testing"

	"github.com/fyerfyer/pdf-extract-tool/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库环境
func setupTestDB(t *testing.T) *gorm.DB {
	// 使用临时文件作为测试数据库
	dbPath := filepath.Join(t.TempDir(), "test_extraction.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")

	// 运行迁移
	err = db.AutoMigrate(&models.ExtractionRun{}, &models.ExtractionRange{})
	require.NoError(t, err, "Failed to run migrations")

	return db
}

// sampleRun 构造一条带范围记录的运行数据
func sampleRun(sourcePath string) *models.ExtractionRun {
	return &models.ExtractionRun{
		SourcePath:     sourcePath,
		SourcePages:    200,
		PageOffset:     0,
		RequestedCount: 2,
		ExtractedCount: 1,
		SkippedCount:   1,
		Ranges: []models.ExtractionRange{
			{
				StartPage:  1,
				EndPage:    50,
				Name:       "Chapter 1",
				Status:     models.RangeStatusExtracted,
				OutputPath: "/books/Chapter 1.pdf",
			},
			{
				StartPage: 51,
				EndPage:   250,
				Name:      "Chapter 2",
				Status:    models.RangeStatusSkipped,
				Reason:    "range exceeds total page count",
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExtractionRepositoryWithDB(db)

	run := sampleRun("/books/source.pdf")
	require.NoError(t, repo.SaveRun(run))

	// BeforeCreate钩子自动生成了ID
	require.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	// 读回运行记录（包含范围记录）
	loaded, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "/books/source.pdf", loaded.SourcePath)
	assert.Equal(t, 200, loaded.SourcePages)
	assert.Equal(t, 1, loaded.ExtractedCount)
	require.Len(t, loaded.Ranges, 2)
	assert.Equal(t, "Chapter 1", loaded.Ranges[0].Name)
	assert.Equal(t, models.RangeStatusSkipped, loaded.Ranges[1].Status)
}

func TestSaveRunValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExtractionRepositoryWithDB(db)

	assert.Error(t, repo.SaveRun(nil))
	assert.Error(t, repo.SaveRun(&models.ExtractionRun{}))
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExtractionRepositoryWithDB(db)

	_, err := repo.GetRun("no-such-run")
	assert.Error(t, err)

	_, err = repo.GetRun("")
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExtractionRepositoryWithDB(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveRun(sampleRun("/books/source.pdf")))
	}

	runs, total, err := repo.ListRuns(0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, runs, 3)

	// 分页
	runs, total, err = repo.ListRuns(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, runs, 2)
}

func TestListRangesByRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExtractionRepositoryWithDB(db)

	run := sampleRun("/books/source.pdf")
	require.NoError(t, repo.SaveRun(run))

	ranges, err := repo.ListRangesByRun(run.ID)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	// 按创建顺序返回
	assert.Equal(t, "Chapter 1", ranges[0].Name)
	assert.Equal(t, "Chapter 2", ranges[1].Name)

	// 不存在的运行ID返回空列表
	ranges, err = repo.ListRangesByRun("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, ranges)
}
