package layout

import (
	"strconv"
	"strings"
)

// 该文件定义文档中长度的单位与换算。排版核心只使用像素。

// Unit 表示长度在文档中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数字，按像素处理
	UnitPX               // 像素
	UnitPT               // 点
	UnitMM               // 毫米
)

// 以 96 DPI 换算。
const (
	PxPerInch = 96.0
	PtToPx    = PxPerInch / 72
	MmToPx    = PxPerInch / 25.4
	PtToMm    = 25.4 / 72
	MmToPt    = 1 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	default:
		return ""
	}
}

// Length 保留数值与原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// PX 换算为像素。
func (l Length) PX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToPx
	case UnitMM:
		return l.Value * MmToPx
	default:
		return l.Value
	}
}

// ParseLength 解析带单位的长度字符串，例如 "20px"、"12pt"、"-3mm"。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
