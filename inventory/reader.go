package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// ReadAll 读取 path 指向的表格（CSV 或 XLSX），按源顺序返回记录。
// 首行为表头；文件不存在返回 ErrNotFound，只有表头没有数据行返回 ErrEmpty。
func ReadAll(path string) ([]Record, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("无法访问 %s: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSXRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}

	records := recordsFromRows(rows)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return records, nil
}

// ReadCSV parses CSV content from r. It does not report ErrEmpty.
func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := parseCSV(r)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 CSV 文件 %s: %w", path, err)
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 文件 %s 失败: %w", path, err)
	}
	return rows, nil
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 XLSX 文件 %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheets[0], err)
	}
	return rows, nil
}

// recordsFromRows 将首行视为表头；数据行缺少的尾部列不会出现在记录中。
func recordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.TrimSpace(name)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		fields := make([]Field, 0, len(header))
		for i, name := range header {
			if i >= len(row) || name == "" {
				continue
			}
			fields = append(fields, Field{Name: name, Value: row[i]})
		}
		records = append(records, Record{Fields: fields})
	}
	return records
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
