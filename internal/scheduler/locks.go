package scheduler

import "time"

// lockedCell 已锁定、本次生成不会改动的单元格
type lockedCell struct {
	code      string
	preserved bool // 来自非 ALGORITHM 的现有排班
}

// lockSet 锁定单元格及需要随本次生成写入的休假行
type lockSet struct {
	cells   map[cellKey]lockedCell
	emitted []Assignment
}

func (l *lockSet) get(empID string, day time.Time) (lockedCell, bool) {
	c, ok := l.cells[cellKey{employeeID: empID, day: dayKey(day)}]
	return c, ok
}

// buildLocks 依次锁定保留排班与已批准休假。保留排班优先于休假，冲突记为警告。
func buildLocks(in Input, scope map[string]Employee, audit *Audit) *lockSet {
	first, last := MonthRange(in.Year, in.Month)
	ls := &lockSet{cells: make(map[cellKey]lockedCell)}

	// ── 保留排班 ──
	for _, a := range in.Preserved {
		if a.Source == EditSourceAlgorithm {
			continue
		}
		if _, ok := scope[a.EmployeeID]; !ok {
			continue
		}
		d := DateOf(a.Date)
		if d.Before(first) || d.After(last) {
			continue
		}
		ls.cells[cellKey{employeeID: a.EmployeeID, day: dayKey(d)}] = lockedCell{code: a.Code, preserved: true}
	}

	// ── 已批准休假 ──
	vacCode := in.Settings.VacationCode
	_, vacKnown := in.Catalog.Shift(vacCode)
	for _, lv := range in.Leaves {
		if lv.Status != LeaveApproved {
			continue
		}
		if _, ok := scope[lv.EmployeeID]; !ok {
			continue
		}
		start, end := DateOf(lv.Start), DateOf(lv.End)
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			key := cellKey{employeeID: lv.EmployeeID, day: dayKey(d)}
			if existing, ok := ls.cells[key]; ok {
				if existing.preserved {
					audit.Warn("员工 %s 在 %s 已有 %s 排班，与已批准休假冲突，保留原排班", lv.EmployeeID, key.day, existing.code)
				}
				continue
			}
			ls.cells[key] = lockedCell{code: vacCode}
			if !vacKnown {
				audit.WarnOnce("vac-missing", "班次目录中没有休假班次 %s，休假日期已锁定但不写入排班", vacCode)
				continue
			}
			ls.emitted = append(ls.emitted, Assignment{
				EmployeeID: lv.EmployeeID,
				Date:       d,
				Code:       vacCode,
				Source:     EditSourceAlgorithm,
			})
			audit.Decide("%s %s 锁定为休假 %s", key.day, lv.EmployeeID, vacCode)
		}
	}
	return ls
}
