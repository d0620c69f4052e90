package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ayusman/airkeys/internal/app"
	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/render"
	"github.com/spf13/cobra"
)

// replayFrameStep is the time between recorded frames, about 30 fps.
const replayFrameStep = 33 * time.Millisecond

var replayCmd = &cobra.Command{
	Use:   "replay <recording.jsonl>",
	Short: "Type from a landmark recording",
	Long: `Feed a recording made with "run --record" through the keyboard instead of
the camera and print the typed text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		frames, err := readRecordingFile(args[0])
		if err != nil {
			return err
		}

		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		st, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		a, err := app.New(app.Config{
			Engine:        eng,
			Camera:        capture.NewBlankCamera(replayWidth, replayHeight),
			Detector:      detector.NewReplayDetector(frames, false),
			Injector:      buildInjector(cfg),
			QueueSize:     cfg.Injector.QueueSize,
			History:       st,
			Source:        app.SourceReplay,
			Overlay:       render.Overlay{HUD: cfg.HUD},
			Stream:        cfg.Server.Enabled,
			Clock:         app.StepClock(time.Now(), replayFrameStep),
			FrameInterval: time.Duration(replayInterval) * time.Millisecond,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		serve(ctx, cfg, a, st)

		err = a.Run(ctx)
		fmt.Println(a.Text())
		return err
	},
}

func readRecordingFile(path string) ([][]detector.HandLandmarks, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames, err := detector.ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("read recording %s: %w", path, err)
	}
	return frames, nil
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&layoutName, "layout", "", "keyboard layout (basic or extended)")
	replayCmd.Flags().StringVar(&injectorKind, "injector", "", "key sink (none, plugin or robotgo)")
	replayCmd.Flags().StringVar(&serveAddr, "serve", "", "serve the HTTP API on this address")
	replayCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the session")
	replayCmd.Flags().BoolVar(&hud, "hud", false, "draw pinch distances on the overlay")
	replayCmd.Flags().IntVar(&replayInterval, "interval", 0, "milliseconds between frames (0 replays as fast as possible)")
	replayCmd.Flags().IntVar(&replayWidth, "width", 1280, "frame width the recording was made at")
	replayCmd.Flags().IntVar(&replayHeight, "height", 720, "frame height the recording was made at")
}
