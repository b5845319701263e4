package scheduler

// Settings 单次生成使用的参数快照，由调用方构建并显式传入引擎
type Settings struct {
	MaxConsecutiveDays int
	MinRestHours       int
	WeekendScheduling  bool
	AlgorithmVersion   string

	// EarliestStartHour 最早可开班的整点，用于最小休息时间校验
	EarliestStartHour int
	// TargetOffRatio 每人每天的目标休息比例（默认 2/7）
	TargetOffRatio float64
	// HistoryDays 连续性窗口天数
	HistoryDays int
	// MaxDecisions 写入日志的决策条数上限
	MaxDecisions int

	OffCode      string
	VacationCode string
	AnchorRules  []AnchorRule
}

// DefaultSettings 默认参数
func DefaultSettings() Settings {
	return Settings{
		MaxConsecutiveDays: 6,
		MinRestHours:       8,
		WeekendScheduling:  true,
		AlgorithmVersion:   "v2.0",
		EarliestStartHour:  6,
		TargetOffRatio:     2.0 / 7.0,
		HistoryDays:        7,
		MaxDecisions:       100,
		OffCode:            "OFF",
		VacationCode:       "VAC",
		AnchorRules: []AnchorRule{
			{Role: RoleMonitorTrader, CategoryCode: "AM"},
			{Role: RoleMonitorTrader, CategoryCode: "MID"},
			{Role: RoleMonitorTrader, CategoryCode: "NS"},
		},
	}
}

// Snapshot 写入生成日志的参数快照
func (s Settings) Snapshot() map[string]any {
	anchors := make([]string, 0, len(s.AnchorRules))
	for _, a := range s.AnchorRules {
		anchors = append(anchors, a.String())
	}
	return map[string]any{
		"max_consecutive_days": s.MaxConsecutiveDays,
		"min_rest_hours":       s.MinRestHours,
		"weekend_scheduling":   s.WeekendScheduling,
		"earliest_start_hour":  s.EarliestStartHour,
		"target_off_ratio":     s.TargetOffRatio,
		"anchor_rules":         anchors,
	}
}
