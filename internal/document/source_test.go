package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// createTestPDF 在指定目录生成一个多页测试PDF
func createTestPDF(t *testing.T, dir string, pages int) string {
	pdf := gofpdf.New("P", "mm", "A4", "")
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 14)
		pdf.Cell(40, 10, fmt.Sprintf("Page %d", i))
	}

	path := filepath.Join(dir, "source.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()
	path := createTestPDF(t, dir, 5)

	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("OpenSource failed: %v", err)
	}

	if src.TotalPages != 5 {
		t.Errorf("Expected 5 pages, got %d", src.TotalPages)
	}
	if src.Path != path {
		t.Errorf("Expected path %s, got %s", path, src.Path)
	}
	if src.Dir() != dir {
		t.Errorf("Expected dir %s, got %s", dir, src.Dir())
	}
	if src.Ext() != ".pdf" {
		t.Errorf("Expected extension .pdf, got %s", src.Ext())
	}
}

func TestOpenSourceNotFound(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got: %v", err)
	}
}

func TestOpenSourceInvalid(t *testing.T) {
	// 内容不是PDF的文件
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatalf("Failed to write fake PDF: %v", err)
	}

	_, err := OpenSource(path)
	if err == nil {
		t.Fatal("Expected error for invalid PDF, got nil")
	}
	if !errors.Is(err, ErrSourceInvalid) {
		t.Errorf("Expected ErrSourceInvalid, got: %v", err)
	}
}

// TestOpenSourceCached 同一个文件重复打开时命中页数缓存
func TestOpenSourceCached(t *testing.T) {
	dir := t.TempDir()
	path := createTestPDF(t, dir, 3)

	first, err := OpenSource(path)
	if err != nil {
		t.Fatalf("First OpenSource failed: %v", err)
	}

	second, err := OpenSource(path)
	if err != nil {
		t.Fatalf("Second OpenSource failed: %v", err)
	}

	if first.TotalPages != second.TotalPages {
		t.Errorf("Cached page count mismatch: %d vs %d", first.TotalPages, second.TotalPages)
	}
}

// TestSourceDirBareName 文件名不带目录时输出目录为当前目录
func TestSourceDirBareName(t *testing.T) {
	src := &Source{Path: "source.pdf", TotalPages: 1}
	if src.Dir() != "." {
		t.Errorf("Expected \".\", got %s", src.Dir())
	}
}
