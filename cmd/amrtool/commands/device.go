// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audamr"
)

func (a *app) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file>",
		Short: "Play a file through the default output device",
		Long: `Play AMR-NB, or any other supported container after converting it to
AMR-NB, through the default output device. Ctrl-C stops playback.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			clip := rt.NewClip()
			if err := clip.InitWithFile(ctx, args[0]); err != nil {
				return err
			}

			ended := make(chan struct{})
			clip.On(audamr.EventEnded, func() { close(ended) })
			if err := clip.Play(); err != nil {
				return err
			}
			a.log.Info().Dur("duration", clip.Duration()).Msg("playing")

			select {
			case <-ended:
			case <-ctx.Done():
				clip.Stop()
			}
			return nil
		},
	}
}

func (a *app) recordCmd() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "record <output.amr>",
		Short: "Record from the default input device to AMR-NB",
		Long: `Record from the default input device for --duration, or until Ctrl-C,
and save the recording as AMR-NB.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			clip := rt.NewClip()
			if err := clip.InitWithRecord(ctx); err != nil {
				return err
			}
			defer clip.Close()

			if err := clip.StartRecord(); err != nil {
				return err
			}
			a.log.Info().Dur("duration", duration).Msg("recording")

			timer := time.NewTimer(duration)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}

			// the signal context may be done already
			finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := clip.FinishRecord(finishCtx); err != nil {
				return err
			}

			blob, err := clip.Blob()
			if err != nil {
				return err
			}
			if err := writeFile(args[0], blob.Data); err != nil {
				return err
			}
			a.log.Info().Dur("duration", clip.Duration()).Int("bytes", blob.Size()).Msg("saved")
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 5*time.Second, "recording length")
	return cmd
}
