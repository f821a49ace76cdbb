package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"lautenbacher.net/gestureleds/animation"
	c "lautenbacher.net/gestureleds/config"
	"lautenbacher.net/gestureleds/controller"
	g "lautenbacher.net/gestureleds/gesture"
	"lautenbacher.net/gestureleds/logging"
	mq "lautenbacher.net/gestureleds/mqtt"
	pl "lautenbacher.net/gestureleds/platform"
	"lautenbacher.net/gestureleds/preview"
	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

type App struct {
	ossignal   chan os.Signal
	configFile string
	realHW     bool
	clock      u.Clock
	conf       *c.Config
	platform   pl.Platform
	preview    *preview.Server
	publisher  *mq.Publisher
	ctrl       *controller.Controller
	cancel     context.CancelFunc
	watcher    *fsnotify.Watcher
	reloadMu   sync.Mutex
	shutdownWg sync.WaitGroup
}

func NewApp(ossignal chan os.Signal, configFile string, realHW bool) *App {
	return &App{
		ossignal:   ossignal,
		configFile: configFile,
		realHW:     realHW,
		clock:      u.NewRealClock(),
	}
}

func main() {
	realp := flag.Bool("real", false, "Set to true if program runs on real hardware")
	configFile := flag.String("config", c.CONFILE, "Config file to use")
	flag.Parse()

	ossignal := make(chan os.Signal, 1)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	app := NewApp(ossignal, *configFile, *realp)
	if err := app.loadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var platform pl.Platform
	if app.realHW {
		platform = pl.NewRaspberryPiPlatform(app.conf)
	} else {
		platform = pl.NewTUIPlatform(app.conf, ossignal)
	}

	if err := app.initialise(platform); err != nil {
		slog.Error("Startup failed", "error", err)
		app.shutdown()
		os.Exit(1)
	}
	app.watchConfig()

	for sig := range ossignal {
		if sig == syscall.SIGHUP {
			slog.Info("Received HUP, reloading config...")
			app.reload()
			continue
		}
		slog.Info("Received signal, shutting down...", "signal", sig)
		break
	}
	app.shutdown()
}

// loadConfig reads the config file and sets up logging for the
// selected mode. The TUI buffers log output until its log pane exists.
func (a *App) loadConfig() error {
	conf, err := c.ReadConfig(a.configFile)
	if err != nil {
		return err
	}
	lc := conf.Log(a.realHW)
	if err := logging.Init(!a.realHW, lc.Level, lc.Format, lc.File); err != nil {
		return err
	}
	a.conf = conf
	slog.Info("Config loaded", "file", a.configFile, "real", a.realHW)
	return nil
}

// initialise starts the platform and the optional preview and MQTT
// outputs, then runs the controller loop in its own goroutine.
func (a *App) initialise(platform pl.Platform) error {
	a.platform = platform
	if err := platform.Start(); err != nil {
		return fmt.Errorf("platform start: %w", err)
	}
	<-platform.Ready()

	displays := r.Displays{platform}
	if a.conf.Preview.Enabled {
		a.preview = preview.NewServer(a.conf.Preview.Listen)
		if err := a.preview.Start(); err != nil {
			return err
		}
		displays = append(displays, a.preview)
	}

	var opts []controller.Opt
	if a.conf.MQTT.Enabled {
		publisher, err := mq.New(a.conf.MQTT)
		if err != nil {
			return err
		}
		a.publisher = publisher
		opts = append(opts, controller.WithPublisher(publisher))
	}

	ring := r.NewRing(platform.LedsTotal(), displays)
	anim := animation.NewAnimator(ring, a.clock, animation.FRAME_DELAY, animation.WAITING_DELAY, animation.TURNS)
	cls := g.NewClassifier(platform, a.clock, g.ENTRY_TIME, g.QUIT_TIME)
	a.ctrl = controller.New(ring, anim, cls, platform, a.clock, opts...)
	a.ctrl.Start()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.shutdownWg.Add(1)
	go func() {
		defer a.shutdownWg.Done()
		a.ctrl.Run(ctx)
	}()
	return nil
}

// reload re-reads the config file. Only the log level is applied at
// runtime, everything else needs a restart.
func (a *App) reload() {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()
	conf, err := c.ReadConfig(a.configFile)
	if err != nil {
		slog.Error("Config reload failed, keeping old config", "error", err)
		return
	}
	if err := logging.SetLevel(conf.Log(a.realHW).Level); err != nil {
		slog.Error("Config reload failed", "error", err)
		return
	}
	a.conf.Logging = conf.Logging
}

// watchConfig reloads the config whenever the file is written. The
// directory is watched so editors replacing the file are noticed too.
func (a *App) watchConfig() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("Can't watch config file", "error", err)
		return
	}
	if err := watcher.Add(filepath.Dir(a.configFile)); err != nil {
		slog.Warn("Can't watch config file", "error", err)
		watcher.Close()
		return
	}
	a.watcher = watcher
	name := filepath.Clean(a.configFile)

	a.shutdownWg.Add(1)
	go func() {
		defer a.shutdownWg.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == name && event.Has(fsnotify.Write|fsnotify.Create) {
					slog.Info("Config file changed", "file", event.Name)
					a.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Config watcher error", "error", err)
			}
		}
	}()
}

func (a *App) shutdown() {
	slog.Info("Shutting down...")
	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			slog.Warn("Closing config watcher", "error", err)
		}
	}
	a.shutdownWg.Wait()

	if a.platform != nil {
		a.platform.Stop()
	}
	if a.preview != nil {
		a.preview.Stop()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	slog.Info("Shutdown complete")
	logging.Close()
}

// Local Variables:
// compile-command: "go build"
// End:
