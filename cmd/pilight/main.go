// Command pilight is the render daemon: it loads configuration from the
// environment, connects to the control bus, and drives an LED strip (or a
// remote client, or nothing at all) until told to stop.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"pilight-go/internal/color"
	"pilight-go/internal/config"
	"pilight-go/internal/controlbus"
	"pilight-go/internal/output"
	"pilight-go/internal/render"
	"pilight-go/internal/telemetry"
	"pilight-go/internal/transforms"
	"pilight-go/internal/variables"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pilight: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := telemetry.New(cfg.DriverDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pilight: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	bus := controlbus.NewAMQPBus(cfg.BrokerURL, cfg.Device == config.DeviceClient, telemetry.For(log, telemetry.SubsystemControlBus))
	defer bus.Close()

	device, err := buildDevice(cfg, bus)
	if err != nil {
		log.Fatal("pilight: failed to build output device", zap.Error(err))
	}

	worker, err := output.NewWorker(device, telemetry.For(log, telemetry.SubsystemOutput))
	if err != nil {
		log.Fatal("pilight: failed to start output worker", zap.Error(err))
	}
	defer worker.Close()

	channels := controlbus.Channels{}
	provider := &staticConfigProvider{cfg: cfg}

	loop := render.NewLoop(provider, bus, channels, worker, telemetry.For(log, telemetry.SubsystemRender), render.Options{
		UpdateInterval:       secondsToDuration(cfg.UpdateInterval),
		MessageCheckInterval: secondsToDuration(cfg.MessageCheckInterval),
		Debug:                cfg.DriverDebug,
	})

	log.Info("pilight: starting render loop",
		zap.Int("num_leds", cfg.NumLEDs),
		zap.String("device", string(cfg.Device)),
		zap.Bool("auto_start", cfg.AutoStart),
	)

	if err := loop.Run(cfg.AutoStart); err != nil {
		log.Fatal("pilight: render loop exited", zap.Error(err))
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// buildDevice selects the output.Device implementation named by
// cfg.Device. ws2801/ws281x need a real periph.io SPI port, which this
// entrypoint does not probe for automatically; operators running on real
// hardware are expected to extend this switch with board-specific SPI
// bus selection (e.g. periph.io/x/periph/host plus a bus name). noop and
// client both work anywhere; client reuses the control bus connection
// itself as its Broker, since AMQPBus already satisfies output.Broker.
func buildDevice(cfg *config.Config, bus *controlbus.AMQPBus) (output.Device, error) {
	switch cfg.Device {
	case config.DeviceNoop:
		return output.NewNoopDevice(cfg.Scale, cfg.Repeat), nil
	case config.DeviceClient:
		return output.NewClientDevice(bus), nil
	default:
		return nil, fmt.Errorf("pilight: device %q requires real SPI hardware access; build a periph.io host first", cfg.Device)
	}
}

// staticConfigProvider stands in for the persisted run-configuration store
// (an explicit external collaborator, not part of this module): it always
// serves one configuration, built directly from environment config, with
// no pipeline and no playlist. A real deployment replaces this with a
// provider backed by whatever store holds named scenes and playlists.
type staticConfigProvider struct {
	cfg *config.Config
}

func (p *staticConfigProvider) LoadVariables(playlistID *int64) (render.VariableSet, error) {
	return render.VariableSet{Registry: variables.NewRegistry()}, nil
}

func (p *staticConfigProvider) LoadEntry(playlistID *int64, entryIndex int) (render.EntryConfig, error) {
	base := make([]color.Color, p.cfg.NumLEDs)
	for i := range base {
		base[i] = color.Black()
	}
	return render.EntryConfig{
		BaseColors: base,
		Pipeline:   transforms.NewPipeline(),
	}, nil
}
