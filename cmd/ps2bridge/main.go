// Command ps2bridge runs the converter pipeline on a host: it reads raw
// keyboard frames from a serial capture pod, drives the protocol session,
// and injects the resulting key events into the operating system.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/converter"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/capture"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/config"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/hidmap"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

func main() {
	cfgPath := flag.String("config", "bridge.yaml", "path to the bridge configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	log := newLogger(cfg.Bridge.LogLevel)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("bridge stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	engine, err := capture.OpenSerial(cfg.Bridge.Port, cfg.Bridge.Baud)
	if err != nil {
		return err
	}

	sink, err := newSink(log)
	if err != nil {
		engine.Close()
		return err
	}
	defer sink.Close()

	leds := &ledFollower{enabled: cfg.Bridge.FollowHostLEDs}
	held := &hidmap.Report{}

	conv, err := converter.New(converter.Options{
		Engine:      engine,
		ChannelSize: cfg.Bridge.ChannelSize,
		Logger:      log,
		OnEvent: func(ev scancode.Event) {
			deliver(ev, held, sink, leds, log)
		},
	})
	if err != nil {
		engine.Close()
		return err
	}
	defer conv.Close()

	if err := conv.Start(time.Now()); err != nil {
		return err
	}
	log.Info("bridge running",
		slog.String("port", cfg.Bridge.Port),
		slog.Int("baud", cfg.Bridge.Baud))

	ticker := time.NewTicker(cfg.Bridge.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			conv.RunOnce(now)
			leds.flush(conv, now)
		}
	}
}

// deliver resolves one assembled event into a host key injection. The held
// report deduplicates typematic repeats so autorepeat stays the host's job.
func deliver(ev scancode.Event, held *hidmap.Report, sink eventSink, leds *ledFollower, log *slog.Logger) {
	usage, ok := hidmap.Usage(ev)
	if !ok {
		log.Debug("no usage mapping", slog.String("event", ev.String()))
		return
	}
	if usage == hidmap.UsagePause {
		if err := sink.Tap(usage); err != nil {
			log.Warn("key injection failed", slog.Any("error", err))
		}
		return
	}

	pressed := ev.Transition == scancode.Make
	if pressed {
		before := *held
		held.Press(usage)
		if *held == before {
			return // typematic repeat
		}
		leds.observe(usage)
	} else {
		held.Release(usage)
	}
	if err := sink.KeyEvent(usage, pressed); err != nil {
		log.Warn("key injection failed", slog.Any("error", err))
	}
}

// ledFollower mirrors lock-key presses back to the keyboard LEDs. A set
// request that loses the command slot stays dirty and is retried on the
// next loop iteration.
type ledFollower struct {
	enabled bool
	mask    byte
	dirty   bool
}

func (f *ledFollower) observe(usage byte) {
	if !f.enabled {
		return
	}
	switch usage {
	case hidmap.UsageCapsLock:
		f.mask ^= ps2.LEDCapsLock
	case hidmap.UsageNumLock:
		f.mask ^= ps2.LEDNumLock
	case hidmap.UsageScrollLock:
		f.mask ^= ps2.LEDScrollLock
	default:
		return
	}
	f.dirty = true
}

func (f *ledFollower) flush(conv *converter.Converter, now time.Time) {
	if !f.dirty {
		return
	}
	if err := conv.SetLEDState(f.mask, now); err == nil {
		f.dirty = false
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
