package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 提醒周期相关指标
	RemindersSentTotal   metric.Int64Counter
	RemindersFailedTotal metric.Int64Counter
	ReminderCyclesTotal  metric.Int64Counter
	CycleDuration        metric.Float64Histogram
	EventsSelectedTotal  metric.Int64Counter
	OverdueNoticesTotal  metric.Int64Counter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("remindhub")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.RemindersSentTotal, err = meter.Int64Counter(
		"reminders_sent_total",
		metric.WithDescription("Total number of reminder messages accepted by the transport"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.RemindersFailedTotal, err = meter.Int64Counter(
		"reminders_failed_total",
		metric.WithDescription("Total number of reminder messages that failed to send"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.ReminderCyclesTotal, err = meter.Int64Counter(
		"reminder_cycles_total",
		metric.WithDescription("Total number of reminder scan cycles executed"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	metrics.CycleDuration, err = meter.Float64Histogram(
		"reminder_cycle_duration_seconds",
		metric.WithDescription("Time spent running one reminder scan cycle"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.EventsSelectedTotal, err = meter.Int64Counter(
		"reminder_events_selected_total",
		metric.WithDescription("Total number of candidate events selected by scan windows"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	metrics.OverdueNoticesTotal, err = meter.Int64Counter(
		"overdue_notices_total",
		metric.WithDescription("Total number of overdue follow-up notices dispatched"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_seconds",
		metric.WithDescription("HTTP request handling duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordDispatch 记录一次事件投递结果（成功与失败条数）
func (m *OTelMetrics) RecordDispatch(ctx context.Context, category string, sent, failed int64) {
	attrs := metric.WithAttributes(
		attribute.String("category", category),
	)
	if sent > 0 {
		m.RemindersSentTotal.Add(ctx, sent, attrs)
	}
	if failed > 0 {
		m.RemindersFailedTotal.Add(ctx, failed, attrs)
	}
}

// RecordCycle 记录一次扫描周期
func (m *OTelMetrics) RecordCycle(ctx context.Context, kind, outcome string, durationSeconds float64, eventCount int64) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	m.ReminderCyclesTotal.Add(ctx, 1, attrs)
	m.CycleDuration.Record(ctx, durationSeconds, attrs)
	if eventCount > 0 {
		m.EventsSelectedTotal.Add(ctx, eventCount, metric.WithAttributes(
			attribute.String("kind", kind),
		))
	}
}

// RecordOverdueNotices 记录逾期补发通知条数
func (m *OTelMetrics) RecordOverdueNotices(ctx context.Context, eventID int64, count int64) {
	m.OverdueNoticesTotal.Add(ctx, count, metric.WithAttributes(
		attribute.String("event_id", fmt.Sprintf("%d", eventID)),
	))
}
