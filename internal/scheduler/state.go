package scheduler

// empState 单名员工在本次运行中的公平性与轮转状态
type empState struct {
	emp         Employee
	lastCode    string
	consecutive int
	position    int
	workCount   int // 工作班次数（公平性排序）
	daysOff     int // 非工作且非休假的天数
}

func newEmpState(emp Employee, c Continuity) *empState {
	return &empState{
		emp:         emp,
		lastCode:    c.LastCode,
		consecutive: c.Consecutive,
		position:    c.Position,
	}
}

// apply 记录当天的班次。锁定单元格同样经过这里，以保持连续天数与休息校验正确。
func (s *empState) apply(code string, cat *Catalog, vacationCode string) {
	shift, known := cat.Shift(code)
	if known && shift.Working {
		s.consecutive++
		s.workCount++
	} else {
		s.consecutive = 0
		if code != vacationCode {
			s.daysOff++
		}
	}
	s.lastCode = code
}

// forcedByCap 已达到最大连续工作天数
func (s *empState) forcedByCap(set Settings) bool {
	return set.MaxConsecutiveDays > 0 && s.consecutive >= set.MaxConsecutiveDays
}

// forcedByRest 前一班结束到最早开班之间的休息时间不足
func (s *empState) forcedByRest(cat *Catalog, set Settings) bool {
	prev, ok := cat.Shift(s.lastCode)
	if !ok || !prev.Working || prev.End == nil {
		return false
	}
	rest := (24 - prev.End.Hour) + set.EarliestStartHour
	return rest < set.MinRestHours
}

func (s *empState) forced(cat *Catalog, set Settings) bool {
	return s.forcedByCap(set) || s.forcedByRest(cat, set)
}

// fairnessLess 工作次数少者优先，其次按员工 ID
func fairnessLess(a, b *empState) bool {
	if a.workCount != b.workCount {
		return a.workCount < b.workCount
	}
	return a.emp.ID < b.emp.ID
}
