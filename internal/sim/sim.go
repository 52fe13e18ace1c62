// Package sim provides an in-process stand-in for the system audio daemon.
// It implements the worker's event loop contract and produces endpoint
// add/remove notices so the dashboard has live data without touching real
// audio hardware.
package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cpebble/rustui/internal/command"
	"github.com/cpebble/rustui/internal/log"
	"github.com/cpebble/rustui/internal/worker"
)

const (
	// DefaultChurn is the endpoint churn interval when none is configured.
	DefaultChurn = 5 * time.Second

	// maxEndpoints caps registry growth during long sessions.
	maxEndpoints = 16

	eventBufferSize = 32
)

// namePool mimics the node names a desktop audio daemon hands out.
var namePool = []string{
	"alsa_output.pci-0000_00_1f.3.analog-stereo",
	"alsa_output.pci-0000_00_1f.3.hdmi-stereo",
	"alsa_output.usb-dac.iec958-stereo",
	"bluez_output.a8_f5_e1.headset",
	"alsa_input.pci-0000_00_1f.3.analog-stereo",
}

// Config controls the simulated daemon.
type Config struct {
	// Endpoints is the number of routing endpoints present at startup.
	Endpoints int
	// Churn is how often an endpoint is added or removed while running.
	Churn time.Duration
	// Seed fixes the churn randomness; zero uses the current time.
	Seed int64
}

type endpoint struct {
	id   string
	name string
}

// Daemon is a simulated audio daemon. It satisfies worker.EventLoop: Run
// blocks on the daemon's event loop, Stop requests it to return, and Attach
// wires the coordinator's control stream into the loop.
type Daemon struct {
	cfg     Config
	rng     *rand.Rand
	ctrl    <-chan command.Command
	observe func(command.Command)

	registry []endpoint
	nameSeq  int

	events   chan command.Command
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a daemon. Nonpositive churn falls back to DefaultChurn and a
// negative endpoint count is treated as zero.
func New(cfg Config) *Daemon {
	if cfg.Churn <= 0 {
		cfg.Churn = DefaultChurn
	}
	if cfg.Endpoints < 0 {
		cfg.Endpoints = 0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Daemon{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // G404: churn jitter, not crypto
		events: make(chan command.Command, eventBufferSize),
		stop:   make(chan struct{}),
	}
}

// Dial connects to the daemon. The in-process daemon has nothing that can
// fail here; the error return exists for the Dialer contract, where a real
// daemon connection would refuse or time out.
func (d *Daemon) Dial() (worker.EventLoop, error) {
	return d, nil
}

// Events returns the daemon's notice stream: one Log command per endpoint
// change. The channel closes when the event loop returns.
func (d *Daemon) Events() <-chan command.Command {
	return d.events
}

// Attach registers the inbound control stream. Commands arriving on ctrl
// while Run is active are observed by fn on the loop goroutine.
func (d *Daemon) Attach(ctrl <-chan command.Command, fn func(command.Command)) {
	d.ctrl = ctrl
	d.observe = fn
}

// Stop requests that Run return. Idempotent and safe from the observer.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Run executes the daemon event loop: seed the registry, then churn
// endpoints until a stop is requested. Call it once.
func (d *Daemon) Run() error {
	defer close(d.events)

	log.Info(log.CatSim, "simulated daemon up", "endpoints", d.cfg.Endpoints, "churn", d.cfg.Churn)
	for range d.cfg.Endpoints {
		d.addEndpoint()
	}

	ticker := time.NewTicker(d.cfg.Churn)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.churn()
		case cmd := <-d.ctrl:
			if d.observe != nil {
				d.observe(cmd)
			}
		case <-d.stop:
			log.Debug(log.CatSim, "simulated daemon stopping", "endpoints", len(d.registry))
			return nil
		}
	}
}

// churn adds or removes one endpoint, biased toward keeping the registry
// populated and under its cap.
func (d *Daemon) churn() {
	switch {
	case len(d.registry) == 0:
		d.addEndpoint()
	case len(d.registry) >= maxEndpoints:
		d.removeEndpoint()
	case d.rng.Intn(2) == 0:
		d.addEndpoint()
	default:
		d.removeEndpoint()
	}
}

func (d *Daemon) addEndpoint() {
	ep := endpoint{
		id:   uuid.New().String(),
		name: namePool[d.nameSeq%len(namePool)],
	}
	d.nameSeq++
	d.registry = append(d.registry, ep)
	d.emit(fmt.Sprintf("endpoint added: %s [%s]", ep.name, ep.id[:8]))
}

func (d *Daemon) removeEndpoint() {
	i := d.rng.Intn(len(d.registry))
	ep := d.registry[i]
	d.registry = append(d.registry[:i], d.registry[i+1:]...)
	d.emit(fmt.Sprintf("endpoint removed: %s [%s]", ep.name, ep.id[:8]))
}

// emit publishes a notice without ever blocking the loop.
func (d *Daemon) emit(text string) {
	select {
	case d.events <- command.Log{Text: text}:
	default:
		log.Debug(log.CatSim, "notice dropped, consumer behind", "notice", text)
	}
}
