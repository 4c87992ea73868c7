// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audamr"
	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/formats/amr"
	"github.com/ik5/audamr/formats/wav"
)

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <input> <output.amr>",
		Short: "Convert an audio file to AMR-NB",
		Long: `Convert WAV, AIFF, MP3, Ogg Vorbis or AMR input to AMR-NB.

Input is mixed down to mono and resampled to 8 kHz. The encoder mode
comes from codec.amr_mode in the config file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			format, src, err := audamr.DefaultRegistry().Open(in)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}
			defer src.Close()

			pcm, rate, err := audio.CollectMono(src, 0, 0)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			b, err := a.newBridge()
			if err != nil {
				return err
			}
			defer b.Close()

			data, err := b.Encode(cmd.Context(), pcm, rate)
			if err != nil {
				return err
			}
			if err := writeFile(args[1], data); err != nil {
				return err
			}

			frames, _ := amr.Frames(data)
			a.log.Info().
				Str("format", format).
				Int("rate", rate).
				Int("frames", len(frames)).
				Int("bytes", len(data)).
				Msg("encoded")
			return nil
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <input.amr> <output.wav>",
		Short: "Convert AMR-NB to a 16-bit 8 kHz WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			b, err := a.newBridge()
			if err != nil {
				return err
			}
			defer b.Close()

			samples, err := b.Decode(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := wav.WriteFloat32(out, amr.SampleRate, samples); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			a.log.Info().Int("samples", len(samples)).Msg("decoded")
			return nil
		},
	}
}
