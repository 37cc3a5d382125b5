package buffered

import (
	"log/slog"
	"slices"

	"github.com/huandu/go-clone"

	"github.com/teenjuna/buffered/packager"
	"github.com/teenjuna/buffered/packager/json"
)

// DefaultCapacity is the capacity of a buffer created without [Config.Capacity].
const DefaultCapacity = 4096

// Config is a config of the [Buffer].
//
// The zero value is invalid: instances are created by [New] and passed to configuration
// functions.
type Config[Item any] struct {
	capacity   int
	items      []Item
	logger     *slog.Logger
	prometheus *PrometheusConfig
	clone      func(Item) Item
}

// Capacity sets the maximum number of items. Inserting into a full buffer evicts an item from
// the opposite end.
func (c *Config[Item]) Capacity(capacity int) {
	if capacity < 1 {
		panic("capacity can't be < 1")
	}
	c.capacity = capacity
}

// Items sets the initial items. They are pushed to the back one by one, so only the last
// Capacity items are kept.
func (c *Config[Item]) Items(items ...Item) {
	c.items = slices.Clone(items)
}

// Logger sets the logger for debug events like evictions. By default nothing is logged.
func (c *Config[Item]) Logger(logger *slog.Logger) {
	if logger == nil {
		panic("logger can't be nil")
	}
	c.logger = logger
}

// Prometheus enables Prometheus metrics. See [Prometheus].
func (c *Config[Item]) Prometheus(config *PrometheusConfig) {
	if config == nil {
		panic("prometheus config can't be nil")
	}
	c.prometheus = config
}

// Clone sets the function used by Copy to make independent copies of items. By default items
// are deep-copied, unexported fields and reference cycles included.
func (c *Config[Item]) Clone(clone func(Item) Item) {
	if clone == nil {
		panic("clone can't be nil")
	}
	c.clone = clone
}

func deepCopy[Item any](item Item) Item {
	// A nil interface item comes back as nil, so the zero value is the right answer.
	v, _ := clone.Slowly(item).(Item)
	return v
}

func newConfig[Item any]() *Config[Item] {
	cfg := &Config[Item]{}
	cfg.Capacity(DefaultCapacity)
	cfg.Logger(slog.New(slog.DiscardHandler))
	cfg.Clone(deepCopy[Item])
	return cfg
}

// PackagedConfig is a config of the [PackagedBuffer]. It accepts every [Config] option.
type PackagedConfig[Item any] struct {
	Config[Item]
	packager   packager.Packager
	terminator string
}

// Packager sets the packager. By default a JSON packager is used.
func (c *PackagedConfig[Item]) Packager(packager packager.Packager) {
	if packager == nil {
		panic("packager can't be nil")
	}
	c.packager = packager
}

// Terminator sets the terminator of the default JSON packager. A packager set with
// [PackagedConfig.Packager] keeps its own terminator.
func (c *PackagedConfig[Item]) Terminator(terminator string) {
	c.terminator = terminator
}

func newPackagedConfig[Item any](configFuncs ...func(c *PackagedConfig[Item])) *PackagedConfig[Item] {
	cfg := &PackagedConfig[Item]{Config: *newConfig[Item]()}
	cfg.Terminator(packager.DefaultTerminator)
	for _, cf := range configFuncs {
		if cf != nil {
			cf(cfg)
		}
	}
	if cfg.packager == nil {
		cfg.Packager(json.New().WithTerminator(cfg.terminator))
	}
	return cfg
}
