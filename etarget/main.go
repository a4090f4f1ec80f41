package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/config"
	"github.com/itohio/goetarget/pkg/logging"
	"github.com/itohio/goetarget/pkg/metrics"
	"github.com/itohio/goetarget/pkg/targetview"
)

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use mocked target instead of serial port")
		headlessFlag = flag.Bool("headless", false, "Run without a window, print shots to stdout")
		levelFlag    = flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *levelFlag != "" {
		cfg.Log.Level = *levelFlag
	}

	logger, err := logging.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if *headlessFlag {
		if err := runHeadless(cfg, *mockFlag, logger); err != nil {
			logger.Fatal().Err(err).Msg("Headless run failed")
		}
		return
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.goetarget")

	// Create main window
	window := application.NewWindow("E-Target")
	window.Resize(fyne.NewSize(1100, 800))
	window.CenterOnScreen()

	// Create application state
	appState := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		log:        logger,
		metrics:    metrics.New(),
		window:     window,
		useMock:    *mockFlag,
	}

	// Create toolbar
	toolbar := createToolbar(appState)

	// Target face and shot list
	appState.targetView = targetview.New(cfg.Calibration.Calibre, cfg.Calibration.TargetType)
	appState.shotList = newShotList()

	split := container.NewHSplit(appState.targetView, appState.shotList.widget)
	split.Offset = 0.7

	content := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		split,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		appState.disconnect()
	})
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	log        zerolog.Logger
	metrics    *metrics.Manager
	window     fyne.Window
	connectBtn *widget.Button
	fireBtn    *widget.Button
	targetView *targetview.TargetWidget
	shotList   *shotList
	useMock    bool
	chain      *pipeline // Current scoring chain (nil if not connected)
	chainDone  chan struct{}
}

// createToolbar creates the application toolbar with Connect, Settings, Clear and Fire buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		state.targetView.Clear()
		state.shotList.clear()
	})

	// Fire is only useful with the mocked target.
	fireBtn := widget.NewButtonWithIcon("Fire", theme.MediaPlayIcon(), func() {
		handleFire(state)
	})
	fireBtn.Disable()
	state.fireBtn = fireBtn

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn, clearBtn), // left
		container.NewHBox(fireBtn),                            // right
		nil,                                                   // center (spacer)
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.chain != nil {
		state.disconnect()
		state.connectBtn.SetIcon(theme.LoginIcon())
		state.fireBtn.Disable()
		return
	}

	chain, err := startPipeline(context.Background(), state.cfg, state.useMock, state.log, state.metrics, nil)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.chain = chain
	state.connectBtn.SetIcon(theme.LogoutIcon())
	if state.useMock {
		state.fireBtn.Enable()
	}

	// Forward scored shots to the widgets on the main thread.
	done := make(chan struct{})
	state.chainDone = done
	go func() {
		defer close(done)
		for s := range chain.Scored() {
			UpdateWidgetOnMainThread(func() {
				state.shotList.add(s)
				if !s.Result.IsMiss() {
					state.targetView.AddShot(s.Record)
				}
			})
		}
	}()
}

// disconnect gracefully closes the scoring chain.
func (state *appState) disconnect() {
	if state.chain == nil {
		return
	}
	state.chain.close(state.log)
	<-state.chainDone
	state.chain = nil
	state.chainDone = nil
	state.log.Info().Msg("Disconnected")
}

// handleFire shoots the mocked target at the centre of the face.
func handleFire(state *appState) {
	if state.chain == nil {
		return
	}
	mock, ok := state.chain.device.(firer)
	if !ok {
		return
	}
	if err := mock.Fire(0, 0, false); err != nil {
		dialog.ShowError(fmt.Errorf("failed to fire: %w", err), state.window)
	}
}

// firer is implemented by the mocked target.
type firer interface {
	Fire(x, y float64, face bool) error
}
