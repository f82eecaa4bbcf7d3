package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrSourceNotFound 源PDF文件不存在
	ErrSourceNotFound = errors.New("source PDF file does not exist")
	// ErrSourceInvalid 源文件无法作为PDF解析
	ErrSourceInvalid = errors.New("source file is not a valid PDF")
)

// pageCountCache 页数缓存
// 同一个源文件在一次进程内可能被多次打开（作为库重复调用时），
// 按路径+修改时间+大小缓存页数，避免重复解析
var pageCountCache = gocache.New(30*time.Minute, 10*time.Minute)

// Source 已打开的源PDF文档
// 只读，打开后页数固定不变
type Source struct {
	Path       string // 源文件路径
	TotalPages int    // PDF总页数
}

// OpenSource 打开并解析源PDF文件
// 文件不存在时返回ErrSourceNotFound，无法解析时返回ErrSourceInvalid
func OpenSource(path string) (*Source, error) {
	// 先检查文件是否存在，再尝试解析
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat source file: %v", err)
	}

	// 命中缓存时跳过解析
	key := cacheKey(path, info)
	if cached, found := pageCountCache.Get(key); found {
		if pages, ok := cached.(int); ok {
			return &Source{Path: path, TotalPages: pages}, nil
		}
	}

	// 使用默认配置
	conf := model.NewDefaultConfiguration()

	// 校验PDF文件有效性
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalid, err)
	}

	// 获取总页数
	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceInvalid, err)
	}

	pageCountCache.Set(key, pages, gocache.DefaultExpiration)

	return &Source{Path: path, TotalPages: pages}, nil
}

// Dir 返回源文件所在目录，输出文件写到同一目录下
func (s *Source) Dir() string {
	dir := filepath.Dir(s.Path)
	if dir == "" {
		dir = "."
	}
	return dir
}

// Ext 返回源文件扩展名（含点）
func (s *Source) Ext() string {
	ext := filepath.Ext(s.Path)
	if ext == "" {
		ext = ".pdf"
	}
	return ext
}

// cacheKey 根据文件路径和状态生成缓存键
// 文件被修改后键随之失效
func cacheKey(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
}
