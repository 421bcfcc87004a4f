package dto

import "github.com/tdjunwei/lostark-raid-schedule/internal/importer"

// ── Excel 导入模块 DTO ──

// ImportResponse 导入结果
type ImportResponse struct {
	Filename string                  `json:"filename"`
	Summary  *importer.ImportSummary `json:"summary"`
	Duration string                  `json:"duration"`
}
