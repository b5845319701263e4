package scheduler

import (
	"sort"
	"time"
)

// Continuity 员工跨月的连续性种子
type Continuity struct {
	History     []string // 窗口内按日期排列的班次代码
	LastCode    string   // 上月最后一天的班次，仅用于首日休息校验
	Consecutive int      // 截至上月最后一天的连续工作天数
	Position    int      // 轮转位置
}

// HistoryWindow 连续性窗口：目标月之前的 days 天（闭区间）
func HistoryWindow(year int, month time.Month, days int) (time.Time, time.Time) {
	first, _ := MonthRange(year, month)
	return first.AddDate(0, 0, -days), first.AddDate(0, 0, -1)
}

// BuildContinuity 由窗口内的历史排班构建每名员工的连续性种子
func BuildContinuity(employees []Employee, history []Assignment, cat *Catalog, year int, month time.Month) map[string]Continuity {
	first, _ := MonthRange(year, month)
	prevDay := first.AddDate(0, 0, -1)

	byEmp := make(map[string][]Assignment, len(employees))
	for _, a := range history {
		d := DateOf(a.Date)
		if !d.Before(first) {
			continue
		}
		a.Date = d
		byEmp[a.EmployeeID] = append(byEmp[a.EmployeeID], a)
	}

	out := make(map[string]Continuity, len(employees))
	for _, emp := range employees {
		rows := byEmp[emp.ID]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

		var c Continuity
		byDay := make(map[string]string, len(rows))
		for _, r := range rows {
			c.History = append(c.History, r.Code)
			byDay[dayKey(r.Date)] = r.Code
		}
		c.LastCode = byDay[dayKey(prevDay)]

		for d := prevDay; ; d = d.AddDate(0, 0, -1) {
			code, ok := byDay[dayKey(d)]
			if !ok {
				break
			}
			s, known := cat.Shift(code)
			if !known || !s.Working {
				break
			}
			c.Consecutive++
		}
		c.Position = seedPosition(cat.Cycle(emp.Role), c.History)
		out[emp.ID] = c
	}
	return out
}
