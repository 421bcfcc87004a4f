package importer

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// 工作簿日期序列号的识别范围（约 2009 年至 2036 年）
const (
	minDateSerial = 40000
	maxDateSerial = 50000
)

// parseNumber 解析数值单元格，允许千分位逗号
func parseNumber(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseGold 解析金币数额，四舍五入为整数
func parseGold(v string) (int64, bool) {
	f, ok := parseNumber(v)
	if !ok {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// isNumeric 单元格是否为数值
func isNumeric(v string) bool {
	_, ok := parseNumber(v)
	return ok
}

// isTruthy 旧表中的勾选列：空、0、否定词视为假
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "n", "否":
		return false
	}
	return true
}

// dateSerial 识别日期序列号并转换为 UTC 日期
func dateSerial(v string) (time.Time, bool) {
	f, ok := parseNumber(v)
	if !ok || f <= minDateSerial || f >= maxDateSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// blankRow 整行均为空白
func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellAt 按列号取值，列号为 -1 或越界时返回空串
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// runeLen 以字符计数的长度
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
