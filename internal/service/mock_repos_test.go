package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"shift-grid/backend/internal/model"
	"shift-grid/backend/internal/repository"
	pkgerrors "shift-grid/backend/pkg/errors"
)

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func strPtr(s string) *string { return &s }

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	listErr   error
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListSchedulable(_ context.Context) ([]model.Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Employee
	for _, e := range m.employees {
		if !e.IsActive || e.ExcludeFromGrid {
			continue
		}
		switch e.Role {
		case "MONITOR_TRADER", "INPLAY_TRADER", "PREMATCH_TRADER":
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

// ── Mock ShiftCatalogRepository ──

type mockShiftCatalogRepo struct {
	shifts     []model.ShiftType
	categories []model.ShiftCategory
	cycles     []model.ShiftCycleConfig
}

func newMockShiftCatalogRepo() *mockShiftCatalogRepo {
	return &mockShiftCatalogRepo{}
}

func (m *mockShiftCatalogRepo) ListActiveShiftTypes(_ context.Context) ([]model.ShiftType, error) {
	var result []model.ShiftType
	for _, s := range m.shifts {
		if s.IsActive {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockShiftCatalogRepo) ListCategories(_ context.Context) ([]model.ShiftCategory, error) {
	return m.categories, nil
}

func (m *mockShiftCatalogRepo) ListDefaultCycles(_ context.Context) ([]model.ShiftCycleConfig, error) {
	var result []model.ShiftCycleConfig
	for _, c := range m.cycles {
		if c.IsDefault {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockShiftCatalogRepo) GetDefaultCycle(_ context.Context, role string) (*model.ShiftCycleConfig, error) {
	for i := range m.cycles {
		if m.cycles[i].IsDefault && m.cycles[i].TraderRole == role {
			return &m.cycles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	leaves []model.LeaveRequest
}

func newMockLeaveRequestRepo() *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{}
}

func (m *mockLeaveRequestRepo) ListApprovedOverlapping(_ context.Context, from, to time.Time) ([]model.LeaveRequest, error) {
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		if l.Status == "APPROVED" && !l.EndDate.Before(from) && !l.StartDate.After(to) {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock DemandEventRepository ──

type mockDemandEventRepo struct {
	events []model.DemandEvent
}

func newMockDemandEventRepo() *mockDemandEventRepo {
	return &mockDemandEventRepo{}
}

func (m *mockDemandEventRepo) ListOverlapping(_ context.Context, from, toExclusive time.Time) ([]model.DemandEvent, error) {
	var result []model.DemandEvent
	for _, e := range m.events {
		end := e.StartsAt
		if e.EndsAt != nil {
			end = *e.EndsAt
		}
		if e.StartsAt.Before(toExclusive) && !end.Before(from) {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules  map[string]*model.Schedule
	events     []model.ScheduleEditEvent
	employees  *mockEmployeeRepo
	replaceErr error
	updateErr  error
	seq        int
}

func newMockScheduleRepo(employees *mockEmployeeRepo) *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule), employees: employees}
}

func (m *mockScheduleRepo) add(s model.Schedule) *model.Schedule {
	if s.ScheduleID == "" {
		m.seq++
		s.ScheduleID = fmt.Sprintf("sch-%04d", m.seq)
	}
	m.schedules[s.ScheduleID] = &s
	return &s
}

func (m *mockScheduleRepo) withEmployee(s model.Schedule) model.Schedule {
	if e, ok := m.employees.employees[s.EmployeeID]; ok {
		s.Employee = e
	}
	return s
}

func (m *mockScheduleRepo) sorted(filter func(*model.Schedule) bool) []model.Schedule {
	var result []model.Schedule
	for _, s := range m.schedules {
		if filter(s) {
			result = append(result, m.withEmployee(*s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		cp := m.withEmployee(*s)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.Schedule, error) {
	return m.sorted(func(s *model.Schedule) bool { return inRange(s.Date, from, to) }), nil
}

func (m *mockScheduleRepo) ListPreserved(_ context.Context, from, to time.Time) ([]model.Schedule, error) {
	return m.sorted(func(s *model.Schedule) bool {
		return inRange(s.Date, from, to) && s.EditSource != "ALGORITHM"
	}), nil
}

func (m *mockScheduleRepo) ReplaceAlgorithmRange(_ context.Context, from, to time.Time, rows []model.Schedule) (int64, error) {
	if m.replaceErr != nil {
		return 0, m.replaceErr
	}
	var deleted int64
	for id, s := range m.schedules {
		if inRange(s.Date, from, to) && s.EditSource == "ALGORITHM" {
			delete(m.schedules, id)
			deleted++
		}
	}
	for _, r := range rows {
		for _, s := range m.schedules {
			if s.EmployeeID == r.EmployeeID && s.Date.Equal(r.Date) {
				return 0, fmt.Errorf("duplicate key value violates unique constraint \"uq_schedule_employee_date\"")
			}
		}
		m.add(r)
	}
	return deleted, nil
}

func (m *mockScheduleRepo) UpdateShift(_ context.Context, schedule *model.Schedule, fromCode string, event *model.ScheduleEditEvent) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cur, ok := m.schedules[schedule.ScheduleID]
	if !ok || cur.ShiftCode != fromCode {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *schedule
	cp.Employee = nil
	m.schedules[schedule.ScheduleID] = &cp
	m.seq++
	event.EditEventID = fmt.Sprintf("evt-%04d", m.seq)
	m.events = append(m.events, *event)
	return nil
}

func (m *mockScheduleRepo) DeleteRange(_ context.Context, from, to time.Time, algorithmOnly bool) (int64, error) {
	var n int64
	for id, s := range m.schedules {
		if !inRange(s.Date, from, to) {
			continue
		}
		if algorithmOnly && s.EditSource != "ALGORITHM" {
			continue
		}
		delete(m.schedules, id)
		n++
	}
	return n, nil
}

func (m *mockScheduleRepo) ListEditEvents(_ context.Context, scheduleID string) ([]model.ScheduleEditEvent, error) {
	var result []model.ScheduleEditEvent
	for _, e := range m.events {
		if e.ScheduleID == scheduleID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock GenerationLogRepository ──

type mockGenerationLogRepo struct {
	logs      []*model.GenerationLog
	createErr error
}

func newMockGenerationLogRepo() *mockGenerationLogRepo {
	return &mockGenerationLogRepo{}
}

func (m *mockGenerationLogRepo) Create(_ context.Context, log *model.GenerationLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	log.LogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockGenerationLogRepo) GetByID(_ context.Context, id string) (*model.GenerationLog, error) {
	for _, l := range m.logs {
		if l.LogID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGenerationLogRepo) List(_ context.Context, filter repository.GenerationLogFilter, offset, limit int) ([]model.GenerationLog, int64, error) {
	var matched []model.GenerationLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		l := m.logs[i]
		if filter.Year > 0 && l.Year != filter.Year {
			continue
		}
		if filter.Month > 0 && l.Month != filter.Month {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		matched = append(matched, *l)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.GenerationLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockGenerationLogRepo) DeleteByPeriod(_ context.Context, year, month int) (int64, error) {
	var kept []*model.GenerationLog
	var n int64
	for _, l := range m.logs {
		if l.Year == year && l.Month == month {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.logs = kept
	return n, nil
}

// ── Mock SystemSettingsRepository ──

type mockSystemSettingsRepo struct {
	settings *model.SystemSettings
}

func newMockSystemSettingsRepo() *mockSystemSettingsRepo {
	return &mockSystemSettingsRepo{settings: &model.SystemSettings{
		Singleton:               true,
		MaxConsecutiveDays:      6,
		MinRestHours:            8,
		WeekendScheduling:       true,
		DefaultAlgorithmVersion: "v2.0",
		Version:                 1,
	}}
}

func (m *mockSystemSettingsRepo) Get(_ context.Context) (*model.SystemSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *mockSystemSettingsRepo) Update(_ context.Context, s *model.SystemSettings) error {
	if m.settings == nil || m.settings.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := *s
	m.settings = &cp
	return nil
}

// ── Mock CoverageRuleRepository ──

type mockCoverageRuleRepo struct {
	rules map[string]*model.CoverageRule
}

func newMockCoverageRuleRepo() *mockCoverageRuleRepo {
	return &mockCoverageRuleRepo{rules: make(map[string]*model.CoverageRule)}
}

func (m *mockCoverageRuleRepo) GetByID(_ context.Context, id string) (*model.CoverageRule, error) {
	if r, ok := m.rules[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoverageRuleRepo) List(_ context.Context) ([]model.CoverageRule, error) {
	var result []model.CoverageRule
	for _, r := range m.rules {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TraderRole != result[j].TraderRole {
			return result[i].TraderRole < result[j].TraderRole
		}
		return result[i].CategoryCode < result[j].CategoryCode
	})
	return result, nil
}

func (m *mockCoverageRuleRepo) ListEnabled(ctx context.Context) ([]model.CoverageRule, error) {
	all, _ := m.List(ctx)
	result := make([]model.CoverageRule, 0, len(all))
	for _, r := range all {
		if r.IsEnabled {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockCoverageRuleRepo) Update(_ context.Context, rule *model.CoverageRule) error {
	cur, ok := m.rules[rule.RuleID]
	if !ok || cur.Version != rule.Version {
		return pkgerrors.ErrOptimisticLock
	}
	rule.Version++
	cp := *rule
	m.rules[rule.RuleID] = &cp
	return nil
}

// ── 测试仓库聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	employee *mockEmployeeRepo
	catalog  *mockShiftCatalogRepo
	leave    *mockLeaveRequestRepo
	event    *mockDemandEventRepo
	schedule *mockScheduleRepo
	genLog   *mockGenerationLogRepo
	settings *mockSystemSettingsRepo
	coverage *mockCoverageRuleRepo
}

func newTestRepos() *testRepos {
	emp := newMockEmployeeRepo()
	return &testRepos{
		employee: emp,
		catalog:  newMockShiftCatalogRepo(),
		leave:    newMockLeaveRequestRepo(),
		event:    newMockDemandEventRepo(),
		schedule: newMockScheduleRepo(emp),
		genLog:   newMockGenerationLogRepo(),
		settings: newMockSystemSettingsRepo(),
		coverage: newMockCoverageRuleRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Employee:       r.employee,
		ShiftCatalog:   r.catalog,
		LeaveRequest:   r.leave,
		DemandEvent:    r.event,
		Schedule:       r.schedule,
		GenerationLog:  r.genLog,
		SystemSettings: r.settings,
		CoverageRule:   r.coverage,
	}
}

// seedCatalog 写入与迁移种子一致的班次目录
func (r *testRepos) seedCatalog() {
	shift := func(code, cat, start, end string, working, mon, ip bool) model.ShiftType {
		s := model.ShiftType{
			ShiftTypeID: "st-" + code, Code: code, Name: code,
			IsWorkingShift: working, ApplicableToMonitor: mon, ApplicableToInplay: ip, IsActive: true,
		}
		if cat != "" {
			s.CategoryCode = strPtr(cat)
		}
		if start != "" {
			s.StartTime = strPtr(start)
			s.EndTime = strPtr(end)
		}
		return s
	}
	r.catalog.shifts = []model.ShiftType{
		shift("MON6", "AM", "06:00:00", "14:00:00", true, true, false),
		shift("MON12", "MID", "12:00:00", "20:00:00", true, true, false),
		shift("MON14", "MID", "14:00:00", "22:00:00", true, true, false),
		shift("MON22", "NS", "22:00:00", "06:00:00", true, true, false),
		shift("IP6", "AM", "06:00:00", "14:00:00", true, false, true),
		shift("IP10", "MID", "10:00:00", "18:00:00", true, false, true),
		shift("OFF", "", "", "", false, true, true),
		shift("VAC", "", "", "", false, true, true),
	}
	r.catalog.categories = []model.ShiftCategory{
		{Code: "AM", MinTraders: 3, DisplayOrder: 1},
		{Code: "MID", MinTraders: 0, DisplayOrder: 2},
		{Code: "NS", MinTraders: 0, DisplayOrder: 3},
	}
	r.catalog.cycles = []model.ShiftCycleConfig{
		{CycleID: "cy-mon", TraderRole: "MONITOR_TRADER", ShiftOrder: model.StringList{"MON6", "MON12", "MON14", "OFF"}, IsDefault: true},
	}
}

// seedMonitors 创建 n 名监控交易员 m01..mNN
func (r *testRepos) seedMonitors(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("m%02d", i)
		r.employee.employees[id] = &model.Employee{EmployeeID: id, Name: "交易员" + id, Role: "MONITOR_TRADER", IsActive: true}
		ids = append(ids, id)
	}
	return ids
}

// [自证通过] internal/service/mock_repos_test.go
