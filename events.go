// SPDX-License-Identifier: EPL-2.0

package audamr

import "fmt"

// Event is a clip notification.
type Event int

const (
	EventPlay Event = iota
	EventStop
	// EventEnded follows EventStop when playback reaches the end by itself.
	EventEnded
	EventStartRecord
	EventFinishRecord
	EventCancelRecord

	eventCount
)

var eventNames = [eventCount]string{"play", "stop", "ended", "startRecord", "finishRecord", "cancelRecord"}

func (e Event) String() string {
	if e < 0 || e >= eventCount {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}
