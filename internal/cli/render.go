// ABOUTME: render command: offline export of a soundscape to WAV
// ABOUTME: Drives the engine against the offline backend and writes 16-bit PCM
package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stillwater-audio/stillwater-go/pkg/audio/output"
	"github.com/stillwater-audio/stillwater-go/pkg/soundscape"
)

// renderBlock is the number of frames pulled per render call
const renderBlock = 1024

func newRenderCmd(a *app) *cobra.Command {
	var (
		outPath string
		seconds float64
	)

	cmd := &cobra.Command{
		Use:   "render <preset>",
		Short: "Render a soundscape to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if seconds <= 0 {
				return fmt.Errorf("--seconds must be positive")
			}
			if outPath == "" {
				outPath = args[0] + ".wav"
			}

			start := time.Now()
			frames, err := renderPreset(args[0], a.cfg.SampleRate, a.cfg.Volume, seconds)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()

			if err := output.WriteWAV(f, a.cfg.SampleRate, output.Channels, frames); err != nil {
				return err
			}

			log.Printf("Rendered %s in %s", outPath, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %.1fs of %s to %s\n", seconds, args[0], outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output WAV path (default <preset>.wav)")
	cmd.Flags().Float64Var(&seconds, "seconds", 30, "length in seconds")

	return cmd
}

// renderPreset plays preset on an offline backend and returns interleaved
// stereo frames
func renderPreset(preset string, sampleRate int, volume, seconds float64) ([]float32, error) {
	backend := output.NewOffline(sampleRate)
	defer backend.Close()

	engine := soundscape.New(soundscape.Config{Backend: backend})

	engine.SetVolume(volume)
	engine.Play(preset)

	if engine.Status().Mode == soundscape.ModeIdle {
		return nil, fmt.Errorf("nothing to render for %q", preset)
	}

	total := int(seconds * float64(sampleRate))
	frames := make([]float32, 0, total*output.Channels)
	for rendered := 0; rendered < total; rendered += renderBlock {
		n := renderBlock
		if total-rendered < n {
			n = total - rendered
		}
		frames = append(frames, backend.Render(n)...)
	}

	engine.Stop()
	return frames, nil
}
