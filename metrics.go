package edds2dds

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus counters for decoding. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Containers  *prometheus.CounterVec
	Blocks      *prometheus.CounterVec
	Frames      prometheus.Counter
	FrameErrors prometheus.Counter
	BytesIn     prometheus.Counter
	BytesOut    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	containers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edds2dds_containers_total",
		Help: "EDDS containers decoded, by result",
	}, []string{"result"})

	blocks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edds2dds_blocks_total",
		Help: "Blocks extracted, by storage kind",
	}, []string{"kind"})

	frames := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edds2dds_frames_total",
		Help: "LZ4 frames decoded",
	})

	frameErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edds2dds_frame_errors_total",
		Help: "LZ4 frames that failed to decompress",
	})

	bytesIn := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edds2dds_input_bytes_total",
		Help: "Total EDDS bytes decoded",
	})

	bytesOut := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edds2dds_output_bytes_total",
		Help: "Total DDS bytes produced",
	})

	reg.MustRegister(containers, blocks, frames, frameErrors, bytesIn, bytesOut)

	return &Metrics{
		Containers:  containers,
		Blocks:      blocks,
		Frames:      frames,
		FrameErrors: frameErrors,
		BytesIn:     bytesIn,
		BytesOut:    bytesOut,
	}
}

func (m *Metrics) observeBlock(b DecodedBlock) {
	if m == nil {
		return
	}
	m.Blocks.WithLabelValues(b.Descriptor.Kind.String()).Inc()
}

func (m *Metrics) observeFrames(n int) {
	if m == nil {
		return
	}
	m.Frames.Add(float64(n))
}

func (m *Metrics) observeFrameError() {
	if m == nil {
		return
	}
	m.FrameErrors.Inc()
}

func (m *Metrics) observeContainer(in, out int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Containers.WithLabelValues("error").Inc()
		return
	}
	m.Containers.WithLabelValues("ok").Inc()
	m.BytesIn.Add(float64(in))
	m.BytesOut.Add(float64(out))
}
