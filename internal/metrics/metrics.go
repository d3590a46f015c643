package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xenking/md2pptx/internal/domain"
)

const namespace = "md2pptx"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ThemeUnresolved labels conversions that failed before a theme was picked.
const ThemeUnresolved = "unresolved"

// Metrics holds the conversion collectors.
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	DeckSlides         prometheus.Histogram
	DeckBytes          prometheus.Histogram
	RateLimited        *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ConversionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of Markdown to PPTX conversions",
			},
			[]string{"theme", "status"},
		),
		ConversionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Duration of Markdown to PPTX conversions in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"status"},
		),
		DeckSlides: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deck_slides",
			Help:      "Number of slides in rendered decks",
			Buckets:   prometheus.LinearBuckets(1, 5, 10),
		}),
		DeckBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deck_bytes",
			Help:      "Size of rendered decks in bytes",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 10),
		}),
		RateLimited: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by a rate limiter",
			},
			[]string{"transport"},
		),
	}
}

type instrumentedConverter struct {
	next    domain.PresentationConverter
	metrics *Metrics
}

// InstrumentConverter records every conversion made through next.
func InstrumentConverter(next domain.PresentationConverter, m *Metrics) domain.PresentationConverter {
	return &instrumentedConverter{next: next, metrics: m}
}

func (c *instrumentedConverter) ConvertToPPTX(ctx context.Context, req domain.ConvertRequest) (*domain.Presentation, error) {
	start := time.Now()
	pres, err := c.next.ConvertToPPTX(ctx, req)

	status, theme := StatusSuccess, ThemeUnresolved
	if err != nil {
		status = StatusError
	} else if pres.Theme != "" {
		theme = pres.Theme
	}
	c.metrics.ConversionsTotal.WithLabelValues(theme, status).Inc()
	c.metrics.ConversionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err == nil {
		c.metrics.DeckSlides.Observe(float64(pres.Slides))
		c.metrics.DeckBytes.Observe(float64(len(pres.Data)))
	}
	return pres, err
}
