package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Writer appends records to a CSV file using the standard Header order.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter returns a writer for path. The file is not touched until EnsureHeader or Append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the backing CSV path.
func (w *Writer) Path() string { return w.path }

// EnsureHeader creates the CSV file with the header row when it does not exist yet.
func (w *Writer) EnsureHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ensureHeaderLocked()
}

func (w *Writer) ensureHeaderLocked() error {
	if _, err := os.Stat(w.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("无法访问 %s: %w", w.path, err)
	}
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("创建 CSV 文件 %s 失败: %w", w.path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Append writes rec as one row. Fields are emitted in Header order; absent fields are written empty.
func (w *Writer) Append(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureHeaderLocked(); err != nil {
		return err
	}
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("打开 CSV 文件 %s 失败: %w", w.path, err)
	}
	defer file.Close()

	row := make([]string, len(Header))
	for i, name := range Header {
		row[i], _ = rec.Get(name)
	}
	cw := csv.NewWriter(file)
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("写入记录失败: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
