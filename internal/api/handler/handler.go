package handler

import "shift-grid/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Generation   *GenerationHandler
	Schedule     *ScheduleHandler
	Settings     *SettingsHandler
	CoverageRule *CoverageRuleHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Generation:   NewGenerationHandler(svc.Generation),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Settings:     NewSettingsHandler(svc.Settings),
		CoverageRule: NewCoverageRuleHandler(svc.CoverageRule),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
