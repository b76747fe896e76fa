// Package metrics exports render statistics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lumen/composition"
)

// Recorder is a composition.Observer backed by its own registry.
type Recorder struct {
	registry *prometheus.Registry

	particles *prometheus.GaugeVec
	released  *prometheus.CounterVec
	passes    *prometheus.HistogramVec
	frames    prometheus.Counter
	frameTime prometheus.Histogram
}

var _ composition.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		particles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lumen_particles",
			Help: "Live particle instances per lane.",
		}, []string{"lane"}),
		released: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumen_ops_released_total",
			Help: "Ops released to particle passes per lane.",
		}, []string{"lane"}),
		passes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumen_pass_duration_seconds",
			Help:    "Time spent painting one pass.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"pass", "kind"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lumen_frames_total",
			Help: "Rendered frames.",
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lumen_frame_duration_seconds",
			Help:    "Time spent rendering one frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	r.registry.MustRegister(r.particles, r.released, r.passes, r.frames, r.frameTime)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) LaneUpdated(lane string, released, live int) {
	if released > 0 {
		r.released.WithLabelValues(lane).Add(float64(released))
	}
	r.particles.WithLabelValues(lane).Set(float64(live))
}

func (r *Recorder) PassPainted(pass string, kind composition.Kind, d time.Duration) {
	r.passes.WithLabelValues(pass, string(kind)).Observe(d.Seconds())
}

func (r *Recorder) FrameRendered(d time.Duration) {
	r.frames.Inc()
	r.frameTime.Observe(d.Seconds())
}

// NewServer serves the recorder's registry on /metrics.
func (r *Recorder) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
}
