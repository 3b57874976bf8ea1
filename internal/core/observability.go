package core

import (
	"context"
	"time"

	"neonpm/pkg/domain"
)

// Logger is the structured logging surface the service writes to. It is
// satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder observes the outcome and latency of each operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, op string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Tracer opens a span per operation.
type Tracer interface {
	Start(ctx context.Context, op string) (context.Context, TraceSpan)
}

// TraceSpan is closed with the operation error, nil on success.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// AuditStatus is the outcome recorded in an AuditEntry.
type AuditStatus string

// Audit outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed operation.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives an entry for every audited operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

type operationInfo struct {
	entity domain.EntityType
	action domain.Action
}

// auditedOperations maps operation names to the record they touch.
// Operations not listed here are traced and timed but not audited.
var auditedOperations = map[string]operationInfo{
	"add_project":                {domain.EntityProject, domain.ActionCreate},
	"update_project":             {domain.EntityProject, domain.ActionUpdate},
	"delete_project":             {domain.EntityProject, domain.ActionDelete},
	"add_project_comment":        {domain.EntityComment, domain.ActionCreate},
	"assign_project_user":        {domain.EntityProject, domain.ActionUpdate},
	"remove_project_user":        {domain.EntityProject, domain.ActionUpdate},
	"add_task":                   {domain.EntityTask, domain.ActionCreate},
	"update_task":                {domain.EntityTask, domain.ActionUpdate},
	"delete_task":                {domain.EntityTask, domain.ActionDelete},
	"add_meeting":                {domain.EntityMeeting, domain.ActionCreate},
	"update_meeting":             {domain.EntityMeeting, domain.ActionUpdate},
	"delete_meeting":             {domain.EntityMeeting, domain.ActionDelete},
	"start_meeting":              {domain.EntityMeeting, domain.ActionUpdate},
	"toggle_meeting_attendee":    {domain.EntityMeeting, domain.ActionUpdate},
	"add_chat_message":           {domain.EntityChatMessage, domain.ActionCreate},
	"create_conversation":        {domain.EntityConversation, domain.ActionCreate},
	"add_conversation_member":    {domain.EntityConversation, domain.ActionUpdate},
	"remove_conversation_member": {domain.EntityConversation, domain.ActionUpdate},
	"add_conversation_message":   {domain.EntityConversationMessage, domain.ActionCreate},
	"delete_conversation":        {domain.EntityConversation, domain.ActionDelete},
	"add_notification":           {domain.EntityNotification, domain.ActionCreate},
	"mark_notifications_read":    {domain.EntityNotification, domain.ActionUpdate},
	"add_time_log":               {domain.EntityTimesheet, domain.ActionCreate},
	"delete_time_log":            {domain.EntityTimesheet, domain.ActionDelete},
	"add_user":                   {domain.EntityUser, domain.ActionCreate},
	"update_user":                {domain.EntityUser, domain.ActionUpdate},
	"delete_user":                {domain.EntityUser, domain.ActionDelete},
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, d time.Duration) {
	s.recordAudit(ctx, op, entityID, d, nil)
}

func (s *Service) recordAuditError(ctx context.Context, op, entityID string, d time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, d, err)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, d time.Duration, err error) {
	info, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    info.entity,
		Action:    info.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  d,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}
