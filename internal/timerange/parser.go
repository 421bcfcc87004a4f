// Package timerange 解析每周空闲时段文本并检测同日时段冲突。
package timerange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ── 解析错误 ──

var (
	ErrMalformed             = errors.New("时间格式无效，应为 HH:MM - HH:MM")
	ErrEndNotAfterStart      = errors.New("结束时间必须晚于开始时间")
	ErrInconsistentOvernight = errors.New("跨天标记与时间不一致")
)

// OvernightMarkers 前端可能插入的跨天标记（位于结束时间之前）
var OvernightMarkers = []string{"隔天", "next-day"}

// OvernightNote 跨天时段的默认备注
const OvernightNote = "跨天到隔日"

var clockPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// Slot 规范化后的时间段
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Overnight bool   `json:"overnight"`
}

// FragmentError 单个片段的解析错误
type FragmentError struct {
	Fragment string
	Err      error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("%q: %v", e.Fragment, e.Err)
}

func (e *FragmentError) Unwrap() error { return e.Err }

// Result 一次解析的结果：有效时段与逐片段错误并存
type Result struct {
	Slots  []Slot
	Errors []*FragmentError
}

// OvernightMode 跨天的声明方式
type OvernightMode int

const (
	// OvernightAuto 由 end <= start 自动判定
	OvernightAuto OvernightMode = iota
	// OvernightExplicit 调用方明确声明跨天
	OvernightExplicit
	// OvernightNone 调用方明确声明不跨天
	OvernightNone
)

// Parse 解析逗号分隔的多个时间段表达式
//
// 空白输入返回零个时段且无错误；单个片段失败不影响其他片段。
func Parse(input string) Result {
	var res Result
	if strings.TrimSpace(input) == "" {
		return res
	}

	fragments := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '，' || r == '、'
	})
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		slot, err := ParseFragment(frag)
		if err != nil {
			res.Errors = append(res.Errors, &FragmentError{Fragment: frag, Err: err})
			continue
		}
		res.Slots = append(res.Slots, slot)
	}
	return res
}

// ParseFragment 解析单个 "HH:MM - HH:MM" 或 "HH:MM - 隔天HH:MM" 片段
func ParseFragment(frag string) (Slot, error) {
	i := strings.Index(frag, "-")
	if i < 0 {
		return Slot{}, ErrMalformed
	}
	left := strings.TrimSpace(frag[:i])
	right := strings.TrimSpace(frag[i+1:])

	mode := OvernightAuto
	for _, marker := range OvernightMarkers {
		if strings.HasPrefix(right, marker) {
			right = strings.TrimSpace(strings.TrimPrefix(right, marker))
			mode = OvernightExplicit
			break
		}
	}

	return New(left, right, mode)
}

// New 以结构化的起止时间构造时段
func New(start, end string, mode OvernightMode) (Slot, error) {
	s, ok := NormalizeClock(start)
	if !ok {
		return Slot{}, ErrMalformed
	}
	e, ok := NormalizeClock(end)
	if !ok {
		return Slot{}, ErrMalformed
	}

	overnight := Minutes(e) <= Minutes(s)
	switch mode {
	case OvernightExplicit:
		if !overnight {
			return Slot{}, ErrInconsistentOvernight
		}
	case OvernightNone:
		if overnight {
			return Slot{}, ErrEndNotAfterStart
		}
	}

	return Slot{Start: s, End: e, Overnight: overnight}, nil
}

// NormalizeClock 校验并补零为 "HH:MM"
func NormalizeClock(v string) (string, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), "：", ":")
	m := clockPattern.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2]), true
}

// Minutes 将合法的 "HH:MM" 转为当日分钟数
func Minutes(clock string) int {
	h, _ := strconv.Atoi(clock[:2])
	m, _ := strconv.Atoi(clock[3:5])
	return h*60 + m
}

// Format 生成展示文本，跨天时段在结束时间前加 "隔天"
func Format(start, end string) string {
	if end <= start {
		return start + " - " + OvernightMarkers[0] + end
	}
	return start + " - " + end
}
