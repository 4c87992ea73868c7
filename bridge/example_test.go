// SPDX-License-Identifier: EPL-2.0

package bridge_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audamr/bridge"
)

// lengthCodec stands in for the AMR codec.
type lengthCodec struct{}

func (lengthCodec) Encode(samples []float32, rate int) ([]byte, error) {
	return make([]byte, len(samples)), nil
}

func (lengthCodec) Decode(data []byte) ([]float32, bool) {
	return make([]float32, len(data)), len(data) > 1
}

func Example() {
	b, err := bridge.New(func() (bridge.Codec, error) { return lengthCodec{}, nil },
		bridge.WithMode(bridge.ModeWorker), bridge.WithWorkers(2))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer b.Close()

	ctx := context.Background()
	data, _ := b.Encode(ctx, []float32{0, 0.5, -0.5, 1}, 0)
	samples, _ := b.Decode(ctx, data)
	fmt.Println(len(data), len(samples))

	_, err = b.Decode(ctx, []byte{1})
	fmt.Println(errors.Is(err, bridge.ErrDecodeFailure))
	// Output:
	// 4 4
	// true
}
