// SPDX-License-Identifier: EPL-2.0

package amrnb

import "fmt"

// Mode selects the AMR-NB bit rate.
type Mode int

const (
	MR475 Mode = iota // 4.75 kbit/s
	MR515             // 5.15 kbit/s
	MR59              // 5.90 kbit/s
	MR67              // 6.70 kbit/s
	MR74              // 7.40 kbit/s
	MR795             // 7.95 kbit/s
	MR102             // 10.2 kbit/s
	MR122             // 12.2 kbit/s
)

// DefaultMode is the highest quality mode.
const DefaultMode = MR122

var modeNames = [...]string{"MR475", "MR515", "MR59", "MR67", "MR74", "MR795", "MR102", "MR122"}

func (m Mode) Valid() bool { return m >= MR475 && m <= MR122 }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name such as "MR122" or its number "7".
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name || s == fmt.Sprint(i) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
