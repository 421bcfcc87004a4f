// Package importer 将旧版团务 Excel 工作簿导入为规范化的数据记录。
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrWorkbookUnreadable 文件无法按工作簿解析
var ErrWorkbookUnreadable = errors.New("无法读取 Excel 工作簿")

// Sheet 一张工作表的单元格文本（原始值，不套用显示格式）
type Sheet struct {
	Name string
	Rows [][]string
}

// Row 返回第 i 行（0 起），越界时返回 nil
func (s *Sheet) Row(i int) []string {
	if i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// Cell 返回去除首尾空白后的单元格文本，越界时返回空串
func (s *Sheet) Cell(row, col int) string {
	r := s.Row(row)
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Workbook 按原顺序保存的工作表集合
type Workbook struct {
	sheets []*Sheet
	byName map[string]*Sheet
}

// NewWorkbook 由内存中的工作表构造工作簿
func NewWorkbook(sheets ...Sheet) *Workbook {
	wb := &Workbook{byName: make(map[string]*Sheet, len(sheets))}
	for i := range sheets {
		s := sheets[i]
		wb.sheets = append(wb.sheets, &s)
		wb.byName[s.Name] = &s
	}
	return wb
}

// OpenWorkbook 读取 xlsx 内容
// 日期以序列号读出，数值不做千分位等格式化
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookUnreadable, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: 工作表 %s: %v", ErrWorkbookUnreadable, name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return NewWorkbook(sheets...), nil
}

// Sheet 按名称查找工作表
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.byName[name]
	return s, ok
}

// SheetNames 返回全部工作表名称（保持工作簿顺序）
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}
