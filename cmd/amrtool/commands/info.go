// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audamr"
	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/codec/amrnb"
	"github.com/ik5/audamr/formats/amr"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print format, rate, channels and duration of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			format, src, err := audamr.DefaultRegistry().Open(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}
			defer src.Close()

			rate, channels := src.SampleRate(), src.Channels()
			pcm, _, err := audio.CollectMono(src, 0, 0)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "format:\t%s\n", format)
			fmt.Fprintf(w, "sample rate:\t%d\n", rate)
			fmt.Fprintf(w, "channels:\t%d\n", channels)
			fmt.Fprintf(w, "duration:\t%v\n", time.Duration(len(pcm))*time.Second/time.Duration(rate))

			if format == "amr" {
				frames, err := amr.Frames(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "frames:\t%d\n", len(frames))
				if len(frames) > 0 {
					fmt.Fprintf(w, "mode:\t%s\n", frameMode(frames[0][0]))
				}
			}
			return w.Flush()
		},
	}
}

func frameMode(toc byte) string {
	m := amrnb.Mode(amr.FrameType(toc))
	if m.Valid() {
		return m.String()
	}
	return fmt.Sprintf("type %d", amr.FrameType(toc))
}
