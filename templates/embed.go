// Package templates ships the built-in label sheet template.
package templates

import (
	_ "embed"
	"fmt"

	"github.com/ByLCY/hwlabels/dsl"
)

//go:embed default.sheet
var defaultSheet string

// Load 解析 path 指向的模板；path 为空时使用内置模板。
func Load(path string) (*dsl.Document, error) {
	if path == "" {
		doc, err := dsl.ParseString(defaultSheet)
		if err != nil {
			return nil, fmt.Errorf("解析内置模板失败: %w", err)
		}
		return doc, nil
	}
	doc, err := dsl.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("解析模板 %s 失败: %w", path, err)
	}
	return doc, nil
}
