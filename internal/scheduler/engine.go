package scheduler

import (
	"runtime/debug"
	"sort"
	"time"
)

// Input 单次生成的全部输入，由调用方一次性加载
type Input struct {
	Year     int
	Month    time.Month
	Settings Settings
	Catalog  *Catalog

	Employees []Employee    // 参与排班的员工（已过滤在职、非排除、交易员角色）
	History   []Assignment  // 连续性窗口内的历史排班
	Leaves    []Leave       // 与目标月有交集的休假
	Preserved []Assignment  // 目标月内非 ALGORITHM 的现有排班
	Events    []DemandEvent // 与目标月有交集的赛事
}

// Result 生成结果
type Result struct {
	Assignments      []Assignment // 需要写入的 ALGORITHM 行
	Demand           DemandMap
	EventsConsidered int
	TradersScheduled int
	Audit            *Audit
}

// Status 结果状态
func (r *Result) Status() Status { return r.Audit.Status() }

// ════════════════════════════════════════════════════════════
// Generate 为目标月的每名员工每天分配一个班次
// ════════════════════════════════════════════════════════════
//
// 流程：
//  1. 锁定保留排班与已批准休假
//  2. 建立需求映射与连续性种子
//  3. 逐日：锁定单元格计入覆盖 → 周末抑制 → 锚定规则 → 类别最低人数 → 智能休息 → 完整性兜底
//
// 运行期间的 panic 会被捕获为错误记录，结果中不含任何排班。
func Generate(in Input) (res *Result) {
	audit := NewAudit(in.Settings.MaxDecisions)
	res = &Result{Audit: audit}

	defer func() {
		if r := recover(); r != nil {
			audit.Fail("排班生成异常: %v\n%s", r, debug.Stack())
			res.Assignments = nil
		}
	}()

	if in.Month < time.January || in.Month > time.December {
		audit.Fail("无效的月份: %d", in.Month)
		return res
	}
	if in.Catalog == nil {
		audit.Fail("班次目录未加载")
		return res
	}
	if _, ok := in.Catalog.Shift(in.Settings.OffCode); !ok {
		audit.Fail("班次目录中没有休息班次 %s", in.Settings.OffCode)
		return res
	}

	employees := make([]Employee, 0, len(in.Employees))
	scope := make(map[string]Employee, len(in.Employees))
	for _, e := range in.Employees {
		if !e.Role.IsTrader() {
			continue
		}
		if _, dup := scope[e.ID]; dup {
			continue
		}
		scope[e.ID] = e
		employees = append(employees, e)
	}
	if len(employees) == 0 {
		audit.Fail("没有可排班的交易员")
		return res
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	res.TradersScheduled = len(employees)

	res.Demand = BuildDemandMap(in.Events, in.Year, in.Month)
	res.EventsConsidered = res.Demand.EventsConsidered

	locks := buildLocks(in, scope, audit)
	continuity := BuildContinuity(employees, in.History, in.Catalog, in.Year, in.Month)

	e := &engine{
		cat:    in.Catalog,
		set:    in.Settings,
		audit:  audit,
		locks:  locks,
		states: make([]*empState, 0, len(employees)),
		byRole: make(map[Role]int),
	}
	for _, emp := range employees {
		e.states = append(e.states, newEmpState(emp, continuity[emp.ID]))
		e.byRole[emp.Role]++
	}
	e.checkAnchorRules()

	out := append([]Assignment(nil), locks.emitted...)
	for i, day := range MonthDays(in.Year, in.Month) {
		out = append(out, e.assignDay(day, i+1, res.Demand)...)
	}
	res.Assignments = out

	audit.Decide("共生成 %d 条排班，涉及 %d 名交易员，%d 个赛事", len(out), res.TradersScheduled, res.EventsConsidered)
	return res
}

// ── 单日分配 ──

type engine struct {
	cat    *Catalog
	set    Settings
	audit  *Audit
	locks  *lockSet
	states []*empState
	byRole map[Role]int

	inapplicableAnchors map[string]bool
}

// dayCtx 单日分配的临时状态
type dayCtx struct {
	day      time.Time
	key      string
	assigned map[string]bool
	coverage map[string]int  // 类别 → 人数
	anchored map[string]bool // 角色/类别 → 是否已覆盖
	offToday int
	out      []Assignment
}

func (d *dayCtx) record(st *empState, shift ShiftType) {
	d.assigned[st.emp.ID] = true
	if shift.Working && shift.CategoryCode != "" {
		d.coverage[shift.CategoryCode]++
		d.anchored[AnchorRule{Role: st.emp.Role, CategoryCode: shift.CategoryCode}.String()] = true
	}
}

func (e *engine) assignDay(day time.Time, dayIndex int, demand DemandMap) []Assignment {
	d := &dayCtx{
		day:      day,
		key:      dayKey(day),
		assigned: make(map[string]bool, len(e.states)),
		coverage: make(map[string]int),
		anchored: make(map[string]bool),
	}

	// 1. 锁定单元格
	for _, st := range e.states {
		lc, ok := e.locks.get(st.emp.ID, day)
		if !ok {
			continue
		}
		shift, _ := e.cat.Shift(lc.code)
		d.record(st, shift)
		if !shift.Working && lc.code != e.set.VacationCode {
			d.offToday++
		}
		st.apply(lc.code, e.cat, e.set.VacationCode)
	}

	// 2. 周末抑制
	if !e.set.WeekendScheduling && isWeekend(day) {
		for _, st := range e.states {
			if !d.assigned[st.emp.ID] {
				e.assignOff(d, st, "周末不排班")
			}
		}
		return d.out
	}

	// 3. 强制休息判定（锁定单元格之后、任何新分配之前）
	forced := make(map[string]bool, len(e.states))
	restOnly := make(map[string]bool, len(e.states))
	for _, st := range e.states {
		if d.assigned[st.emp.ID] {
			continue
		}
		byCap := st.forcedByCap(e.set)
		byRest := st.forcedByRest(e.cat, e.set)
		forced[st.emp.ID] = byCap || byRest
		restOnly[st.emp.ID] = byRest && !byCap
	}

	// 4. 锚定规则
	for _, rule := range e.set.AnchorRules {
		e.applyAnchor(d, rule, forced, restOnly)
	}

	// 5. 类别最低人数
	for _, cat := range e.cat.CoverageCategories() {
		e.fillCategory(d, cat, forced)
	}

	// 6. 剩余员工：智能休息或工作班次
	high := demand.IsHighDemand(day)
	limit := offCap(len(e.states), e.set.TargetOffRatio, high)
	var rest []*empState
	for _, st := range e.states {
		if !d.assigned[st.emp.ID] {
			rest = append(rest, st)
		}
	}
	orderForSmartOff(rest, forced)
	for _, st := range rest {
		switch {
		case forced[st.emp.ID]:
			e.assignOff(d, st, "强制休息")
		case wantsVoluntaryOff(st, d.offToday, limit, high, e.set.TargetOffRatio, dayIndex):
			e.assignOff(d, st, "智能休息")
		default:
			shift, ok := e.walk(st, e.cat.RoleWorkingShifts(st.emp.Role))
			if !ok {
				e.audit.Warn("%s 员工 %s 没有适用的工作班次，安排休息", d.key, st.emp.ID)
				e.assignOff(d, st, "无适用班次")
				continue
			}
			e.assign(d, st, shift, "常规轮转")
		}
	}

	// 7. 完整性兜底
	for _, st := range e.states {
		if !d.assigned[st.emp.ID] {
			e.audit.Warn("%s 员工 %s 未被分配，兜底安排休息", d.key, st.emp.ID)
			e.assignOff(d, st, "兜底")
		}
	}
	return d.out
}

// checkAnchorRules 角色无成员或无可用班次的锚定规则在本次运行中只警告一次
func (e *engine) checkAnchorRules() {
	e.inapplicableAnchors = make(map[string]bool)
	for _, rule := range e.set.AnchorRules {
		switch {
		case e.byRole[rule.Role] == 0:
			e.inapplicableAnchors[rule.String()] = true
			e.audit.WarnOnce("anchor:"+rule.String(), "锚定规则 %s 无法执行：没有该角色的交易员", rule)
		case len(e.cat.CategoryShifts(rule.CategoryCode, rule.Role)) == 0:
			e.inapplicableAnchors[rule.String()] = true
			e.audit.WarnOnce("anchor:"+rule.String(), "锚定规则 %s 无法执行：该类别没有适用的班次", rule)
		}
	}
}

func (e *engine) applyAnchor(d *dayCtx, rule AnchorRule, forced, restOnly map[string]bool) {
	if e.inapplicableAnchors[rule.String()] || d.anchored[rule.String()] {
		return
	}
	var preferred, fallback []*empState
	for _, st := range e.states {
		if st.emp.Role != rule.Role || d.assigned[st.emp.ID] {
			continue
		}
		switch {
		case !forced[st.emp.ID]:
			preferred = append(preferred, st)
		case restOnly[st.emp.ID]:
			fallback = append(fallback, st)
		}
	}
	sort.Slice(preferred, func(i, j int) bool { return fairnessLess(preferred[i], preferred[j]) })
	sort.Slice(fallback, func(i, j int) bool { return fairnessLess(fallback[i], fallback[j]) })

	candidates := e.cat.CategoryShifts(rule.CategoryCode, rule.Role)
	if len(preferred) > 0 {
		st := preferred[0]
		shift, _ := e.walk(st, candidates)
		e.assign(d, st, shift, "锚定 "+rule.String())
		return
	}
	if len(fallback) > 0 {
		st := fallback[0]
		shift, _ := e.walk(st, candidates)
		e.assign(d, st, shift, "锚定（休息时间不足的兜底） "+rule.String())
		e.audit.Warn("%s 锚定规则 %s 只能由休息时间不足的员工 %s 覆盖", d.key, rule, st.emp.ID)
		return
	}
	e.audit.Warn("%s 锚定规则 %s 没有可用的交易员", d.key, rule)
}

func (e *engine) fillCategory(d *dayCtx, cat Category, forced map[string]bool) {
	for d.coverage[cat.Code] < cat.MinTraders {
		var best *empState
		var bestShifts []ShiftType
		for _, st := range e.states {
			if d.assigned[st.emp.ID] || forced[st.emp.ID] {
				continue
			}
			shifts := e.cat.CategoryShifts(cat.Code, st.emp.Role)
			if len(shifts) == 0 {
				continue
			}
			if best == nil || fairnessLess(st, best) {
				best, bestShifts = st, shifts
			}
		}
		if best == nil {
			e.audit.Warn("%s 类别 %s 人数不足：%d/%d", d.key, cat.Code, d.coverage[cat.Code], cat.MinTraders)
			return
		}
		shift, _ := e.walk(best, bestShifts)
		e.assign(d, best, shift, "类别 "+cat.Code+" 最低人数")
	}
}

func (e *engine) walk(st *empState, candidates []ShiftType) (ShiftType, bool) {
	shift, pos, ok := walkCycle(e.cat.Cycle(st.emp.Role), st.position, candidates)
	if ok {
		st.position = pos
	}
	return shift, ok
}

func (e *engine) assign(d *dayCtx, st *empState, shift ShiftType, reason string) {
	d.record(st, shift)
	if !shift.Working && shift.Code != e.set.VacationCode {
		d.offToday++
	}
	st.apply(shift.Code, e.cat, e.set.VacationCode)
	d.out = append(d.out, Assignment{
		EmployeeID: st.emp.ID,
		Date:       d.day,
		Code:       shift.Code,
		Source:     EditSourceAlgorithm,
	})
	e.audit.Decide("%s %s → %s（%s）", d.key, st.emp.ID, shift.Code, reason)
}

func (e *engine) assignOff(d *dayCtx, st *empState, reason string) {
	off, _ := e.cat.Shift(e.set.OffCode)
	e.assign(d, st, off, reason)
}

