package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RangeStatus 单个页面范围的处理结果状态
type RangeStatus string

const (
	// RangeStatusExtracted 范围提取成功
	RangeStatusExtracted RangeStatus = "extracted"
	// RangeStatusSkipped 范围因边界问题被跳过
	RangeStatusSkipped RangeStatus = "skipped"
	// RangeStatusFailed 范围提取失败
	RangeStatusFailed RangeStatus = "failed"
)

// ExtractionRun 一次提取运行的记录
// 用于保存提取历史，方便回顾哪些章节是从哪个文件切出来的
type ExtractionRun struct {
	ID             string            `gorm:"primaryKey"`         // 运行ID，UUID
	SourcePath     string            `gorm:"not null"`           // 源PDF路径
	SourcePages    int               `gorm:"not null"`           // 源PDF总页数
	PageOffset     int               `gorm:"not null;default:0"` // 本次运行使用的页码偏移量
	RequestedCount int               `gorm:"not null;default:0"` // 请求的范围数量
	ExtractedCount int               `gorm:"not null;default:0"` // 成功提取的范围数量
	SkippedCount   int               `gorm:"not null;default:0"` // 被跳过的范围数量
	FailedCount    int               `gorm:"not null;default:0"` // 提取失败的范围数量
	CreatedAt      time.Time         `gorm:"not null;index"`     // 运行时间
	Ranges         []ExtractionRange `gorm:"foreignKey:RunID"`   // 本次运行的所有范围记录
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置ID和时间
func (r *ExtractionRun) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (ExtractionRun) TableName() string {
	return "extraction_runs"
}

// ExtractionRange 单个页面范围的处理记录
type ExtractionRange struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"` // 主键ID
	RunID         string         `gorm:"not null;index"`           // 所属运行ID
	StartPage     int            `gorm:"not null"`                 // 请求的起始页（未加偏移）
	EndPage       int            `gorm:"not null"`                 // 请求的结束页（未加偏移）
	Name          string         `gorm:"not null"`                 // 输出文件基础名
	Status        RangeStatus    `gorm:"not null;size:20;index"`   // 处理状态
	Reason        string         `gorm:"type:text"`                // 跳过或失败的原因
	OutputPath    string         `gorm:""`                         // 输出PDF路径
	CompanionPath string         `gorm:""`                         // 伴随笔记文件路径
	Metadata      datatypes.JSON `gorm:"type:json"`                // 元数据，JSON格式（例如实际页面范围）
	CreatedAt     time.Time      `gorm:"not null"`                 // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (r *ExtractionRange) BeforeCreate(tx *gorm.DB) (err error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (ExtractionRange) TableName() string {
	return "extraction_ranges"
}
