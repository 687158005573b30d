package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const businessSubsystem = "marketpay"

var webhookEvents = &Metric{
	Name:        "webhook_events_total",
	Description: "Processor webhook deliveries, partitioned by event type and outcome.",
	Type:        MetricTypeCounterVec,
	Args:        []string{"type", "result"},
}

var upstreamCallDur = &Metric{
	Name:        "upstream_call_dur_ms",
	Description: "Payment processor call latency in milliseconds.",
	Type:        MetricTypeHistogramVec,
	Args:        []string{"op", "result"},
}

var (
	webhookEventsVec   *prometheus.CounterVec
	upstreamCallDurVec *prometheus.HistogramVec
)

func init() {
	webhookEventsVec = NewMetric(webhookEvents, businessSubsystem).(*prometheus.CounterVec)
	upstreamCallDurVec = NewMetric(upstreamCallDur, businessSubsystem).(*prometheus.HistogramVec)
	webhookEvents.MetricCollector = webhookEventsVec
	upstreamCallDur.MetricCollector = upstreamCallDurVec
	prometheus.MustRegister(webhookEventsVec, upstreamCallDurVec)
}

// ObserveWebhook counts one webhook delivery.
func ObserveWebhook(eventType, result string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEventsVec.WithLabelValues(eventType, result).Inc()
}

// ObserveUpstreamCall records the latency of one processor call started at start.
func ObserveUpstreamCall(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamCallDurVec.WithLabelValues(op, result).Observe(MillisecondsSince(start))
}
