package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"

	"github.com/ayusman/airkeys/internal/app"
	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/render"
	"github.com/ayusman/airkeys/internal/tray"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Type with the camera",
	Long:  `Open the camera, show the keyboard overlay and type a key on every pinch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("camera") {
			cfg.Camera.Device = cameraDevice
		}
		if cmd.Flags().Changed("no-window") {
			cfg.Window = !noWindow
		}
		if cmd.Flags().Changed("tray") {
			cfg.Tray = withTray
		}
		if cfg.Tray && cfg.Window {
			// Both need the main thread.
			log.Println("Tray enabled, running without the preview window")
			cfg.Window = false
		}

		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
		if err != nil {
			return fmt.Errorf("hand detection unavailable: %w", err)
		}

		st, err := openHistory(cfg)
		if err != nil {
			det.Close()
			return err
		}
		if st != nil {
			defer st.Close()
		}

		appCfg := app.Config{
			Engine:     eng,
			Camera:     capture.NewCamera(cfg.CaptureConfig()),
			Detector:   det,
			Preprocess: cfg.Preprocessor(),
			Injector:   buildInjector(cfg),
			QueueSize:  cfg.Injector.QueueSize,
			History:    st,
			Source:     app.SourceCamera,
			Overlay:    render.Overlay{HUD: cfg.HUD},
			Stream:     cfg.Server.Enabled,
		}
		if cfg.Window {
			appCfg.Display = render.NewWindow("AirKeys")
		}
		if recordPath != "" {
			f, err := os.Create(recordPath)
			if err != nil {
				det.Close()
				return fmt.Errorf("create recording: %w", err)
			}
			defer f.Close()
			appCfg.Record = f
		}

		a, err := app.New(appCfg)
		if err != nil {
			det.Close()
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		serve(ctx, cfg, a, st)

		if cfg.Tray {
			url := ""
			if cfg.Server.Enabled {
				url = "http://" + cfg.Server.Addr
			}
			err = runWithTray(ctx, cancel, a, url)
		} else {
			err = a.Run(ctx)
		}

		fmt.Println(a.Text())
		return err
	},
}

// runWithTray runs the frame loop in the background and the tray menu on
// the calling goroutine, which must be the main one.
func runWithTray(ctx context.Context, cancel context.CancelFunc, a *app.App, url string) error {
	t := tray.New()
	t.OnToggle(a.SetPaused)
	t.OnQuit(cancel)
	if url != "" {
		t.OnOpen(func() {
			if err := openBrowser(url); err != nil {
				log.Printf("Failed to open %s: %v", url, err)
			}
		})
	}
	a.OnCommit(func(engine.Event) {
		t.SetLastKey(a.LastKey())
	})

	// Keep the toggle in step with pauses made over the HTTP API.
	snaps, unsubscribe := a.Subscribe()
	defer unsubscribe()
	go func() {
		for snap := range snaps {
			if snap.Paused != t.IsPaused() {
				t.SetPaused(snap.Paused)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()

	t.Run()
	cancel()
	return <-errCh
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&layoutName, "layout", "", "keyboard layout (basic or extended)")
	runCmd.Flags().StringVar(&injectorKind, "injector", "", "key sink (none, plugin or robotgo)")
	runCmd.Flags().StringVar(&serveAddr, "serve", "", "serve the HTTP API on this address")
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the session")
	runCmd.Flags().BoolVar(&hud, "hud", false, "draw pinch distances on the overlay")
	runCmd.Flags().IntVar(&cameraDevice, "camera", 0, "camera device index")
	runCmd.Flags().BoolVar(&noWindow, "no-window", false, "run without the preview window")
	runCmd.Flags().BoolVar(&withTray, "tray", false, "show a tray menu")
	runCmd.Flags().StringVar(&recordPath, "record", "", "write detected landmarks to this JSON-lines file")
}
