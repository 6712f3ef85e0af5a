package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics is a per-run registry flushed to a node-exporter textfile.
type runMetrics struct {
	registry      *prometheus.Registry
	labelRows     prometheus.Counter
	retained      prometheus.Counter
	dropped       prometheus.Counter
	collisions    prometheus.Counter
	tagsWritten   prometheus.Gauge
	urlsWritten   prometheus.Gauge
	stageDuration *prometheus.GaugeVec
	lastSuccess   prometheus.Gauge
}

func newRunMetrics(sink string) *runMetrics {
	constLabels := prometheus.Labels{"sink": sink}
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		labelRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "collect_tags_label_rows_total",
			Help:        "Label rows read from the labels file",
			ConstLabels: constLabels,
		}),
		retained: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "collect_tags_labels_retained_total",
			Help:        "Label rows at or above the confidence threshold",
			ConstLabels: constLabels,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "collect_tags_labels_dropped_total",
			Help:        "Label rows below the confidence threshold",
			ConstLabels: constLabels,
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "collect_tags_description_collisions_total",
			Help:        "Tag ids merged into an already seen description",
			ConstLabels: constLabels,
		}),
		tagsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "collect_tags_tags_written",
			Help:        "Descriptions written to the sink",
			ConstLabels: constLabels,
		}),
		urlsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "collect_tags_urls_written",
			Help:        "Description/url pairs written to the sink",
			ConstLabels: constLabels,
		}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "collect_tags_stage_duration_seconds",
			Help:        "Wall time spent in each pipeline stage",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "collect_tags_last_success_timestamp_seconds",
			Help:        "Unix time of the last successful run",
			ConstLabels: constLabels,
		}),
	}
	m.registry.MustRegister(
		m.labelRows,
		m.retained,
		m.dropped,
		m.collisions,
		m.tagsWritten,
		m.urlsWritten,
		m.stageDuration,
		m.lastSuccess,
	)
	return m
}

func (m *runMetrics) observeLabels(s labelStats) {
	m.labelRows.Add(float64(s.rows))
	m.retained.Add(float64(s.retained))
	m.dropped.Add(float64(s.dropped))
}

func (m *runMetrics) observeTranslate(s translateStats) {
	m.collisions.Add(float64(s.collisions))
	m.tagsWritten.Set(float64(s.tags))
	m.urlsWritten.Set(float64(s.urls))
}

func (m *runMetrics) observeStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

func (m *runMetrics) writeTextfile(path string, now time.Time) error {
	m.lastSuccess.Set(float64(now.Unix()))
	return prometheus.WriteToTextfile(path, m.registry)
}
