package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputStore 输出文件存储
// 所有输出文件都写在同一个目录下（与源文件相同的目录）
type OutputStore struct {
	dir string // 输出目录
	ext string // 文档文件扩展名（含点，例如".pdf"）
}

// NewOutputStore 创建输出存储实例
func NewOutputStore(dir, ext string) *OutputStore {
	if dir == "" {
		dir = "."
	}
	return &OutputStore{
		dir: dir,
		ext: ext,
	}
}

// Dir 返回输出目录
func (s *OutputStore) Dir() string {
	return s.dir
}

// DocumentFileName 推导输出文档的文件名
// 如果基础名没有带扩展名则自动补上
func (s *OutputStore) DocumentFileName(name string) string {
	if !strings.HasSuffix(name, s.ext) {
		return name + s.ext
	}
	return name
}

// DocumentPath 返回输出文档的完整路径
// 已存在同名文件时由写入方直接覆盖
func (s *OutputStore) DocumentPath(name string) string {
	return filepath.Join(s.dir, s.DocumentFileName(name))
}

// CompanionFileName 推导伴随笔记文件的文件名
// 直接在原始基础名后加.md，不重复应用扩展名规则
func (s *OutputStore) CompanionFileName(name string) string {
	return name + ".md"
}

// CompanionPath 返回伴随笔记文件的完整路径
func (s *OutputStore) CompanionPath(name string) string {
	return filepath.Join(s.dir, s.CompanionFileName(name))
}

// WriteCompanion 创建空的Markdown笔记文件
// 文件已存在时截断为空，内容契约是"存在且为空"
func (s *OutputStore) WriteCompanion(name string) (string, error) {
	path := s.CompanionPath(name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create companion file: %v", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close companion file: %v", err)
	}

	return path, nil
}
