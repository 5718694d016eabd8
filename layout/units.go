package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths used by templates.
// The layout engine works in points (1/72 in); renderers convert at their boundary.

// Unit represents the original unit of a length value as written in a template.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// pointsPer 给出每种单位对应的点数；UnitNone 视为点。
var pointsPer = map[Unit]float64{
	UnitNone: 1,
	UnitPT:   1,
	UnitMM:   MmToPt,
	UnitCM:   10 * MmToPt,
	UnitIN:   72,
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// To converts this length to the target unit.
func (l Length) To(target Unit) float64 {
	from, ok := pointsPer[l.Unit]
	if !ok {
		return l.Value
	}
	to, ok := pointsPer[target]
	if !ok {
		return l.Value
	}
	return l.Value * from / to
}

func (l Length) ToPT() float64 { return l.To(UnitPT) }
func (l Length) ToCM() float64 { return l.To(UnitCM) }

// PtToCM 将点换算为厘米，用于输出标签实际尺寸。
func PtToCM(pt float64) float64 { return Length{Value: pt, Unit: UnitPT}.ToCM() }

// ParseRawLengthStr parses a template length string preserving its unit.
// ok is false when the numeric part cannot be parsed.
func ParseRawLengthStr(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves original author intent: either a factor (e.g., 1.2x) or an absolute length (e.g., 12pt).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.2x"、"1.2" 或 "12pt" 形式的行高。
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l, ok := ParseRawLengthStr(v)
	if !ok || l.Value <= 0 {
		return LineHeightSpec{}, false
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}, true
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// Resolve computes the absolute line height in points using the given font size.
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		if s.Factor > 0 {
			return fontSize * s.Factor
		}
	case LineHeightAbsolute:
		return s.Len.ToPT()
	}
	// ReportLab 默认 leading 为字号的 1.2 倍
	return fontSize * 1.2
}
