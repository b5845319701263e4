package scheduler

import "sort"

// 角色未配置默认循环时使用的内置轮转顺序
var defaultFallbackCycles = map[Role][]string{
	RoleMonitorTrader:  {"MON6", "MON12", "MON14", "OFF"},
	RolePrematchTrader: {"MON6", "MON12", "MON14", "OFF"},
	RoleInplayTrader:   {"IP6", "IP9", "IP10", "IP12", "IP14", "OFF"},
}

// DefaultFallbackCycles 返回内置轮转顺序的副本
func DefaultFallbackCycles() map[Role][]string {
	out := make(map[Role][]string, len(defaultFallbackCycles))
	for r, c := range defaultFallbackCycles {
		out[r] = append([]string(nil), c...)
	}
	return out
}

// Catalog 班次目录：有效班次类型、类别与每个角色的轮转顺序
type Catalog struct {
	shifts     []ShiftType
	byCode     map[string]ShiftType
	categories map[string]Category
	cycles     map[Role][]string
	fallback   map[Role][]string
}

// NewCatalog 构建班次目录。shifts 的顺序即“目录顺序”，用于轮转回退时的候选次序。
// cycles 为已配置的默认循环，fallback 为缺省时的内置顺序（nil 使用 DefaultFallbackCycles）。
func NewCatalog(shifts []ShiftType, categories []Category, cycles, fallback map[Role][]string) *Catalog {
	c := &Catalog{
		shifts:     make([]ShiftType, 0, len(shifts)),
		byCode:     make(map[string]ShiftType, len(shifts)),
		categories: make(map[string]Category, len(categories)),
		cycles:     make(map[Role][]string, len(cycles)),
		fallback:   fallback,
	}
	for _, s := range shifts {
		if _, dup := c.byCode[s.Code]; dup {
			continue
		}
		c.shifts = append(c.shifts, s)
		c.byCode[s.Code] = s
	}
	for _, cat := range categories {
		c.categories[cat.Code] = cat
	}
	for r, order := range cycles {
		if len(order) > 0 {
			c.cycles[r] = append([]string(nil), order...)
		}
	}
	if c.fallback == nil {
		c.fallback = DefaultFallbackCycles()
	}
	return c
}

// Shift 按代码查询班次
func (c *Catalog) Shift(code string) (ShiftType, bool) {
	s, ok := c.byCode[code]
	return s, ok
}

// Cycle 角色的轮转顺序：优先已配置的默认循环，其次内置回退
func (c *Catalog) Cycle(role Role) []string {
	if order, ok := c.cycles[role]; ok {
		return order
	}
	return c.fallback[role]
}

// CategoryShifts 该类别下对角色可用的工作班次（目录顺序）
func (c *Catalog) CategoryShifts(category string, role Role) []ShiftType {
	var out []ShiftType
	for _, s := range c.shifts {
		if s.Working && s.CategoryCode == category && s.ApplicableTo(role) {
			out = append(out, s)
		}
	}
	return out
}

// RoleWorkingShifts 对角色可用的全部工作班次（目录顺序）
func (c *Catalog) RoleWorkingShifts(role Role) []ShiftType {
	var out []ShiftType
	for _, s := range c.shifts {
		if s.Working && s.ApplicableTo(role) {
			out = append(out, s)
		}
	}
	return out
}

// Category 按代码查询类别
func (c *Catalog) Category(code string) (Category, bool) {
	cat, ok := c.categories[code]
	return cat, ok
}

// CoverageCategories 需要最低覆盖的类别，按 display_order、code 排序
func (c *Catalog) CoverageCategories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		if cat.MinTraders > 0 {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// NextInCycle 返回轮转中 current 之后的代码（循环），供网格单元格的循环编辑使用。
// current 不在轮转中时返回第一个代码。
func NextInCycle(rotation []string, current string) (string, bool) {
	if len(rotation) == 0 {
		return "", false
	}
	for i, code := range rotation {
		if code == current {
			return rotation[(i+1)%len(rotation)], true
		}
	}
	return rotation[0], true
}
