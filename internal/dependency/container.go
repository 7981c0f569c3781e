// Package dependency wires core skillbox services using go.uber.org/dig.
package dependency

import (
	"time"

	"go.uber.org/dig"

	"github.com/skillbox/skillbox/internal/builtin"
	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/channels"
	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/content"
	"github.com/skillbox/skillbox/internal/cron"
	"github.com/skillbox/skillbox/internal/dispatch"
	"github.com/skillbox/skillbox/internal/features"
	"github.com/skillbox/skillbox/internal/help"
	"github.com/skillbox/skillbox/internal/plugins"
	"github.com/skillbox/skillbox/internal/skills"
)

const busSize = 100

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg        *config.Config
	features   *features.Store
	registry   *skills.Registry
	help       *help.Synthesizer
	dispatcher *dispatch.Dispatcher
	loop       *dispatch.Loop
	channels   *channels.Manager
	scheduler  *cron.Service
	inbound    *bus.InboundBus
	console    *bus.ConsoleBus
}

func (c *Container) Config() *config.Config           { return c.cfg }
func (c *Container) Features() *features.Store        { return c.features }
func (c *Container) Registry() *skills.Registry       { return c.registry }
func (c *Container) Help() *help.Synthesizer          { return c.help }
func (c *Container) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }
func (c *Container) Loop() *dispatch.Loop             { return c.loop }
func (c *Container) Channels() *channels.Manager      { return c.channels }
func (c *Container) Scheduler() *cron.Service         { return c.scheduler }
func (c *Container) InboundBus() *bus.InboundBus      { return c.inbound }
func (c *Container) ConsoleBus() *bus.ConsoleBus      { return c.console }

// Interactive is a named bool so dig can tell the gateway's terminal mode
// apart from other booleans.
type Interactive bool

// New builds and wires all core services from cfg. interactive registers the
// terminal channel with the channel manager.
func New(cfg *config.Config, interactive bool) (*Container, error) {
	d := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func() Interactive { return Interactive(interactive) },
		newFeatureStore,
		newRegistry,
		newNormalizer,
		newHelp,
		newDispatcher,
		newInboundBus,
		newOutboundBus,
		newConsoleBus,
		dispatch.NewLoop,
		newChannelManager,
		newScheduler,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		store *features.Store,
		registry *skills.Registry,
		synth *help.Synthesizer,
		dispatcher *dispatch.Dispatcher,
		loop *dispatch.Loop,
		manager *channels.Manager,
		scheduler *cron.Service,
		inbound *bus.InboundBus,
		console *bus.ConsoleBus,
	) {
		result = &Container{
			cfg:        cfg,
			features:   store,
			registry:   registry,
			help:       synth,
			dispatcher: dispatcher,
			loop:       loop,
			channels:   manager,
			scheduler:  scheduler,
			inbound:    inbound,
			console:    console,
		}
	})
	return result, err
}

func newFeatureStore(cfg *config.Config) *features.Store {
	return features.Open(cfg.FeaturesPath())
}

func newRegistry(cfg *config.Config, store *features.Store) *skills.Registry {
	return skills.NewRegistryBuilder().
		WithCore(
			builtin.Menu(store, builtin.NewAdmins(cfg.Admins)),
			builtin.Modules(),
		).
		WithExtension(plugins.All(PluginSettings(cfg))...).
		Build()
}

// PluginSettings maps the skills section of the config onto the extension
// skill settings.
func PluginSettings(cfg *config.Config) plugins.Settings {
	s := plugins.DefaultSettings()
	sc := cfg.Skills
	s.WeatherKey = sc.WeatherKey
	if sc.DefaultCity != "" {
		s.DefaultCity = sc.DefaultCity
	}
	if sc.HTTPTimeoutSeconds > 0 {
		s.Timeout = time.Duration(sc.HTTPTimeoutSeconds) * time.Second
	}
	if sc.Retries > 0 {
		s.Retries = sc.Retries
	}
	if sc.MaxImages > 0 {
		s.MaxImages = sc.MaxImages
	}
	s.SampleImage = sc.SampleImage
	return s
}

func newNormalizer(cfg *config.Config) *content.Normalizer {
	return content.NewNormalizer(cfg.MediaDirs())
}

func newHelp(registry *skills.Registry, store *features.Store) *help.Synthesizer {
	return help.NewSynthesizer(registry, store)
}

func newDispatcher(
	registry *skills.Registry,
	store *features.Store,
	normalizer *content.Normalizer,
	synth *help.Synthesizer,
) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(registry, store, normalizer, synth)
}

func newInboundBus() *bus.InboundBus   { return bus.NewInboundBus(busSize) }
func newOutboundBus() *bus.OutboundBus { return bus.NewOutboundBus(busSize) }
func newConsoleBus() *bus.ConsoleBus   { return bus.NewConsoleBus(busSize) }

func newChannelManager(
	cfg *config.Config,
	inbound *bus.InboundBus,
	outbound *bus.OutboundBus,
	console *bus.ConsoleBus,
	interactive Interactive,
) *channels.Manager {
	return channels.NewManager(cfg, inbound, outbound, console, bool(interactive))
}

func newScheduler(cfg *config.Config, loop *dispatch.Loop, outbound *bus.OutboundBus) *cron.Service {
	return cron.NewService(cfg.Schedules, loop, outbound)
}
