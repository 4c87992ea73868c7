// SPDX-License-Identifier: EPL-2.0

package hostaudio

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audamr/recorder"
)

// Capture records from the default input device as float32.
type Capture struct {
	owner    *Context
	rate     int
	channels int

	mtx    sync.Mutex
	device *malgo.Device
}

// OpenCapture returns an input at the configured capture rate and
// channel count. The device is opened on Start.
func (c *Context) OpenCapture() *Capture {
	return &Capture{
		owner:    c,
		rate:     c.cfg.CaptureSampleRate,
		channels: c.cfg.CaptureChannels,
	}
}

func (c *Capture) SampleRate() int { return c.rate }
func (c *Capture) Channels() int   { return c.channels }

func (c *Capture) Start(onData func(samples []float32)) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.device != nil {
		return nil
	}

	mctx, err := c.owner.malgoContext()
	if err != nil {
		return err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = uint32(c.channels)
	cfg.SampleRate = uint32(c.rate)
	if runtime.GOOS == "linux" {
		cfg.Alsa.NoMMap = 1
	}

	onCapture := func(_, input []byte, frameCount uint32) {
		samples := decodeF32(input, int(frameCount)*c.channels)
		if len(samples) > 0 {
			onData(samples)
		}
	}

	device, err := malgo.InitDevice(mctx, cfg, malgo.DeviceCallbacks{Data: onCapture})
	if err != nil {
		return fmt.Errorf("failed to open capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	c.device = device
	c.owner.log.Debug().Int("sample_rate", c.rate).Int("channels", c.channels).Msg("capture device started")
	return nil
}

func (c *Capture) Stop() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.device == nil {
		return nil
	}
	err := c.device.Stop()
	c.device.Uninit()
	c.device = nil
	if err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

// decodeF32 reads up to n little-endian float32 samples into a new slice.
func decodeF32(in []byte, n int) []float32 {
	n = min(n, len(in)/4)
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(in[i*4:]))
	}
	return out
}

var _ recorder.Input = (*Capture)(nil)
