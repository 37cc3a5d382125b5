package buffered

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the buffer.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the items gauge.
	Items prometheus.GaugeOpts
	// Options for the pushed items counter, labeled by the end ("front" or "back").
	ItemsPushed prometheus.CounterOpts
	// Options for the evicted items counter, labeled by the end the item was evicted from.
	ItemsEvicted prometheus.CounterOpts
	// Options for the removed items counter.
	ItemsRemoved prometheus.CounterOpts
	// Options for the packaged items counter, labeled by the operation ("pack" or "unpack").
	ItemsPackaged prometheus.CounterOpts
	// Options for the packaging errors counter, labeled by the operation.
	PackagingErrors prometheus.CounterOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
//
// A config registers its collectors once per buffer, so a registerer can't be shared by two
// buffers with the same namespace and subsystem.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  "buffered",
		Items: prometheus.GaugeOpts{
			Name: "items",
			Help: "Number of items in buffer",
		},
		ItemsPushed: prometheus.CounterOpts{
			Name: "items_pushed",
			Help: "Number of items pushed into buffer",
		},
		ItemsEvicted: prometheus.CounterOpts{
			Name: "items_evicted",
			Help: "Number of items evicted from full buffer",
		},
		ItemsRemoved: prometheus.CounterOpts{
			Name: "items_removed",
			Help: "Number of items removed from buffer",
		},
		ItemsPackaged: prometheus.CounterOpts{
			Name: "items_packaged",
			Help: "Number of items packed or unpacked by buffer",
		},
		PackagingErrors: prometheus.CounterOpts{
			Name: "packaging_errors",
			Help: "Number of errors occurred during packing or unpacking",
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		items:           prometheus.NewGauge(withGaugeName(c.Items, c)),
		itemsPushed:     prometheus.NewCounterVec(withCounterName(c.ItemsPushed, c), []string{"end"}),
		itemsEvicted:    prometheus.NewCounterVec(withCounterName(c.ItemsEvicted, c), []string{"end"}),
		itemsRemoved:    prometheus.NewCounter(withCounterName(c.ItemsRemoved, c)),
		itemsPackaged:   prometheus.NewCounterVec(withCounterName(c.ItemsPackaged, c), []string{"op"}),
		packagingErrors: prometheus.NewCounterVec(withCounterName(c.PackagingErrors, c), []string{"op"}),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.items,
			m.itemsPushed,
			m.itemsEvicted,
			m.itemsRemoved,
			m.itemsPackaged,
			m.packagingErrors,
		)
	}

	return &m
}

func withGaugeName(opts prometheus.GaugeOpts, c *PrometheusConfig) prometheus.GaugeOpts {
	if opts.Namespace == "" {
		opts.Namespace = c.Namespace
	}
	if opts.Subsystem == "" {
		opts.Subsystem = c.Subsystem
	}
	return opts
}

func withCounterName(opts prometheus.CounterOpts, c *PrometheusConfig) prometheus.CounterOpts {
	if opts.Namespace == "" {
		opts.Namespace = c.Namespace
	}
	if opts.Subsystem == "" {
		opts.Subsystem = c.Subsystem
	}
	return opts
}

const (
	front = "front"
	back  = "back"

	opPack   = "pack"
	opUnpack = "unpack"
)

// metrics is nil when Prometheus isn't configured; every method is a no-op then.
type metrics struct {
	items           prometheus.Gauge
	itemsPushed     *prometheus.CounterVec
	itemsEvicted    *prometheus.CounterVec
	itemsRemoved    prometheus.Counter
	itemsPackaged   *prometheus.CounterVec
	packagingErrors *prometheus.CounterVec
}

func (m *metrics) pushed(end string, size int) {
	if m == nil {
		return
	}
	m.itemsPushed.WithLabelValues(end).Inc()
	m.items.Set(float64(size))
}

func (m *metrics) evicted(end string) {
	if m == nil {
		return
	}
	m.itemsEvicted.WithLabelValues(end).Inc()
}

func (m *metrics) removed(size int) {
	if m == nil {
		return
	}
	m.itemsRemoved.Inc()
	m.items.Set(float64(size))
}

func (m *metrics) packaged(op string) {
	if m == nil {
		return
	}
	m.itemsPackaged.WithLabelValues(op).Inc()
}

func (m *metrics) packagingError(op string) {
	if m == nil {
		return
	}
	m.packagingErrors.WithLabelValues(op).Inc()
}
