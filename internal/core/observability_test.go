package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"neonpm/pkg/domain"
)

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

type metricRecord struct {
	op      string
	success bool
}

type captureMetrics struct{ records []metricRecord }

func (c *captureMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.records = append(c.records, metricRecord{op: op, success: success})
}

type captureAudit struct{ entries []AuditEntry }

func (c *captureAudit) Record(_ context.Context, e AuditEntry) { c.entries = append(c.entries, e) }

func TestServiceObservesEveryOperation(t *testing.T) {
	logger := &captureLogger{}
	metrics := &captureMetrics{}
	audit := &captureAudit{}
	tracer := NewJSONTracer(nil)
	svc := newTestService(WithLogger(logger), WithMetricsRecorder(metrics), WithTracer(tracer), WithAuditRecorder(audit))
	ctx := context.Background()

	project, _, err := svc.AddProject(ctx, domain.ProjectInput{Name: "Observed"})
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if _, err := svc.DeleteTask(ctx, "missing"); err == nil {
		t.Fatalf("expected delete error")
	}
	if _, err := svc.SetActiveConversation(ctx, "x"); err != nil {
		t.Fatalf("set active: %v", err)
	}

	if len(metrics.records) != 3 || !metrics.records[0].success || metrics.records[1].success {
		t.Fatalf("unexpected metrics %+v", metrics.records)
	}
	spans := tracer.Entries()
	if len(spans) != 3 || spans[1].Operation != "delete_task" || spans[1].Status != "error" || spans[1].Error == "" {
		t.Fatalf("unexpected spans %+v", spans)
	}
	if len(audit.entries) != 2 {
		t.Fatalf("expected unaudited operations skipped, got %+v", audit.entries)
	}
	created := audit.entries[0]
	if created.Operation != "add_project" || created.EntityID != project.ID || created.Entity != domain.EntityProject ||
		created.Action != domain.ActionCreate || created.Status != AuditStatusSuccess || !created.Timestamp.Equal(fixedNow) {
		t.Fatalf("unexpected audit entry %+v", created)
	}
	failed := audit.entries[1]
	if failed.Status != AuditStatusError || failed.EntityID != "missing" || !strings.Contains(failed.Error, "not found") {
		t.Fatalf("unexpected audit error entry %+v", failed)
	}
	if len(logger.calls) != 3 || logger.calls[1] != "e:operation failed" {
		t.Fatalf("unexpected log calls %v", logger.calls)
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	svc := newTestService(WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), WithAuditRecorder(nil), WithClock(nil), WithMeetingLinkBase("  "))
	if svc.linkBase != DefaultMeetingLinkBase {
		t.Fatalf("expected default link base, got %q", svc.linkBase)
	}
	if _, _, err := svc.AddProject(context.Background(), domain.ProjectInput{Name: "Defaults"}); err != nil {
		t.Fatalf("add project: %v", err)
	}
	noopLogger{}.Warn("ignored")
}

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "neonpm_service_metrics_") {
		t.Fatalf("unexpected generated name %q", rec.Name())
	}
	rec.Observe(context.Background(), "add_task", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "add_task", false, 3*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Second)

	snap := rec.Snapshot()
	if snap.DurationsMS["add_task"] != 5 {
		t.Fatalf("expected 5ms total, got %v", snap.DurationsMS["add_task"])
	}
	if snap.Results["add_task"]["success"] != 1 || snap.Results["add_task"]["error"] != 1 {
		t.Fatalf("unexpected counters %+v", snap.Results)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation must be ignored")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	multi := MultiMetricsRecorder{rec, &captureMetrics{}}
	multi.Observe(context.Background(), "add_user", true, time.Millisecond)
	multi.Observe(context.Background(), "add_user", true, time.Millisecond)
	multi.Observe(context.Background(), "add_user", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.total.WithLabelValues("add_user", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(rec.total.WithLabelValues("add_user", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "add_meeting")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "delete_meeting")
	span.End(errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	var entry JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode span: %v", err)
	}
	if entry.Operation != "delete_meeting" || entry.Status != "error" || entry.Error != "boom" {
		t.Fatalf("unexpected span %+v", entry)
	}
}
