package layout

import (
	"encoding/json"
	"os"
	"slices"
)

type debugSheet struct {
	Grid  GridConfig   `json:"grid"`
	Count int          `json:"records"`
	Pages []PageLayout `json:"pages"`
}

// WriteDebugJSON 将分页结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(sheet *Sheet, path string) error {
	if sheet == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugSheet{
		Grid:  sheet.Grid(),
		Count: sheet.Len(),
		Pages: slices.Collect(sheet.Pages()),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
