package scheduler

import "fmt"

// Status 生成结果状态
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// Audit 单次生成的审计记录构建器
type Audit struct {
	warnings  []string
	errors    []string
	decisions []string
	dropped   int
	limit     int
	seen      map[string]bool
}

// NewAudit 创建审计构建器；limit 为决策条数上限（≤0 表示不限）
func NewAudit(limit int) *Audit {
	return &Audit{limit: limit, seen: make(map[string]bool)}
}

// Warn 记录警告
func (a *Audit) Warn(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

// WarnOnce 同一 key 在一次运行中只记录一次
func (a *Audit) WarnOnce(key, format string, args ...any) {
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.Warn(format, args...)
}

// Fail 记录错误；存在错误时状态为 FAILED
func (a *Audit) Fail(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

// Decide 记录一条算法决策，超出上限的只计数
func (a *Audit) Decide(format string, args ...any) {
	if a.limit > 0 && len(a.decisions) >= a.limit {
		a.dropped++
		return
	}
	a.decisions = append(a.decisions, fmt.Sprintf(format, args...))
}

// Failed 是否已记录错误
func (a *Audit) Failed() bool { return len(a.errors) > 0 }

// Status 错误 → FAILED，警告 → PARTIAL，否则 SUCCESS
func (a *Audit) Status() Status {
	switch {
	case len(a.errors) > 0:
		return StatusFailed
	case len(a.warnings) > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}

// AuditRecord 审计构建器的输出
type AuditRecord struct {
	Status    Status
	Warnings  []string
	Errors    []string
	Decisions []string
}

// Record 导出审计记录；决策被截断时追加一条说明
func (a *Audit) Record() AuditRecord {
	rec := AuditRecord{
		Status:    a.Status(),
		Warnings:  append([]string{}, a.warnings...),
		Errors:    append([]string{}, a.errors...),
		Decisions: append([]string{}, a.decisions...),
	}
	if a.dropped > 0 {
		rec.Decisions = append(rec.Decisions, fmt.Sprintf("另有 %d 条决策未记录", a.dropped))
	}
	return rec
}
