// Command relay-sim drives a bank of relays through a demonstration sequence,
// mirroring channel state to the terminal and the GPIO header.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/relay-sim/internal/config"
	"github.com/sweeney/relay-sim/internal/display"
	"github.com/sweeney/relay-sim/internal/gpio"
	"github.com/sweeney/relay-sim/internal/mqtt"
	"github.com/sweeney/relay-sim/internal/output"
	"github.com/sweeney/relay-sim/internal/relay"
	"github.com/sweeney/relay-sim/internal/sequence"
	"github.com/sweeney/relay-sim/internal/status"
	"github.com/sweeney/relay-sim/internal/web"
)

func main() {
	cfg, printConfig, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if printConfig {
		fmt.Print(cfg)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// parseFlags resolves the configuration: defaults, then the -config file if
// given, then any flag set explicitly on the command line.
func parseFlags(args []string) (config.Config, bool, error) {
	def := config.Default()
	fs := flag.NewFlagSet("relay-sim", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML config file (explicit flags override it)")
	channels := fs.Int("channels", def.Channels, "Number of relay channels (8 or 16)")
	step := fs.Duration("step", def.Step, "Sequencer step duration")
	simulate := fs.Bool("simulate", def.Simulate, "Run without relay hardware")
	chip := fs.String("chip", def.Chip, "GPIO chip device name")
	pins := fs.String("pins", formatPins(def.Pins), "Comma-separated BCM pins, channel 1 first")
	activeLow := fs.Bool("active-low", def.ActiveLow, "Relays energise on a low level")
	colour := fs.Bool("color", def.Color, "Highlight ON channels with colour")
	broker := fs.String("broker", def.Broker, "MQTT broker address (empty to disable)")
	httpAddr := fs.String("http", def.HTTPAddr, "HTTP status address (empty to disable)")
	printConfig := fs.Bool("print-config", false, "Print resolved configuration and exit")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, false, err
	}

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, false, err
		}
		cfg = loaded
	}

	var perr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "channels":
			cfg.Channels = *channels
		case "step":
			cfg.Step = *step
		case "simulate":
			cfg.Simulate = *simulate
		case "chip":
			cfg.Chip = *chip
		case "pins":
			p, err := parsePins(*pins)
			if err != nil {
				perr = err
				return
			}
			cfg.Pins = p
		case "active-low":
			cfg.ActiveLow = *activeLow
		case "color":
			cfg.Color = *colour
		case "broker":
			cfg.Broker = *broker
		case "http":
			cfg.HTTPAddr = *httpAddr
		}
	})
	if perr != nil {
		return config.Config{}, false, perr
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, *printConfig, nil
}

func run(cfg config.Config) error {
	bank := relay.NewBank(cfg.Channels)
	labels := cfg.Labels()

	tracker := status.NewTracker(time.Now(), bank, labels, status.Config{
		Channels: cfg.Channels,
		StepMs:   cfg.Step.Milliseconds(),
		Simulate: cfg.Simulate,
		Polarity: cfg.Polarity().String(),
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTPAddr,
	})
	sequencer := sequence.New(bank, cfg.Step, tracker)

	// Initialize MQTT telemetry
	var publisher mqtt.Publisher
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		tracker.SetMQTT(p)
		publisher = p
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	// Initialize GPIO. From here on runLoop owns the writer and its cleanup.
	writer, err := openWriter(cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	workers := []worker{
		{"sequencer", sequencer},
		{"display", display.New(bank,
			display.NewRenderer(labels, cfg.Color),
			display.NewANSITerminal(colorable.NewColorableStdout()),
			cfg.DisplayPeriod())},
		{"output", output.New(bank, writer, cfg.Polarity(), cfg.RelayPeriod())},
	}
	if publisher != nil {
		workers = append(workers, worker{"mqtt", mqtt.NewMirror(bank, labels, publisher, cfg.DisplayPeriod())})
		publishLifecycle(publisher, tracker, "STARTUP", "")
	}

	log.Printf("started: channels=%d step=%v simulate=%v polarity=%v", cfg.Channels, cfg.Step, cfg.Simulate, cfg.Polarity())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	reason, err := runLoop(bank, writer, cfg.Polarity(), workers, sigCh)

	if publisher != nil {
		publishLifecycle(publisher, tracker, "SHUTDOWN", reason)
	}
	log.Printf("terminated (%s)", reason)
	return err
}

func openWriter(cfg config.Config) (gpio.Writer, error) {
	if cfg.Simulate {
		return gpio.NullWriter{}, nil
	}
	return gpio.NewRealWriter(cfg.Chip, cfg.ChannelPins(), cfg.Polarity().Level(false))
}

// runner is a periodic loop that exits once running is false.
type runner interface {
	Run(running *atomic.Bool) error
}

type worker struct {
	name string
	r    runner
}

// runLoop starts the workers and blocks until a signal arrives or a worker
// fails. It then clears the running flag, waits for every worker to exit and
// finally forces all channels OFF, writes that state and closes the writer.
// The final cleanup runs on every exit path. Returns the shutdown reason
// ("SIGINT", "SIGTERM" or "FAULT") and the fault, if any.
func runLoop(bank *relay.Bank, writer gpio.Writer, polarity gpio.Polarity, workers []worker, sig <-chan os.Signal) (reason string, err error) {
	running := &atomic.Bool{}
	running.Store(true)

	defer func() {
		if cerr := cleanup(bank, writer, polarity); cerr != nil {
			log.Printf("cleanup: %v", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	faults := make(chan error, len(workers))
	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			err := guard(w, running)
			if err != nil {
				faults <- err
			}
			return err
		})
	}

	select {
	case s := <-sig:
		log.Printf("received %v, shutting down", s)
		reason = signalName(s)
	case err = <-faults:
		log.Printf("unexpected error: %v", err)
		reason = "FAULT"
	}

	running.Store(false)
	if werr := g.Wait(); werr != nil && err == nil {
		log.Printf("unexpected error: %v", werr)
		err = werr
	}
	return reason, err
}

// guard runs a worker, converting a panic into an error.
func guard(w worker, running *atomic.Bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", w.name, r)
		}
	}()
	if err := w.r.Run(running); err != nil {
		return fmt.Errorf("%s: %w", w.name, err)
	}
	return nil
}

// cleanup returns the hardware to a safe state. Called once all workers have stopped.
func cleanup(bank *relay.Bank, writer gpio.Writer, polarity gpio.Polarity) error {
	bank.SetAll(relay.Off)

	var errs []error
	if err := writer.Write(output.Levels(bank.Snapshot(), polarity)); err != nil {
		errs = append(errs, fmt.Errorf("write final state: %w", err))
	}
	if err := writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close gpio: %w", err))
	}
	return errors.Join(errs...)
}

func publishLifecycle(pub mqtt.Publisher, tracker *status.Tracker, event, reason string) {
	snap := tracker.Snapshot()
	err := pub.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", strings.ToLower(event), err)
		return
	}
	log.Printf("published %s event", strings.ToLower(event))
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func formatPins(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func parsePins(s string) ([]int, error) {
	var pins []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("pins: %q is not a number", part)
		}
		pins = append(pins, p)
	}
	return pins, nil
}
