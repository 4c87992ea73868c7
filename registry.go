// SPDX-License-Identifier: EPL-2.0

package audamr

import (
	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/codec/amrnb"
	"github.com/ik5/audamr/formats/aiff"
	"github.com/ik5/audamr/formats/mp3"
	"github.com/ik5/audamr/formats/vorbis"
	"github.com/ik5/audamr/formats/wav"
)

// DefaultRegistry knows every container in the module. mp3 is last since
// its frame sync check is the loosest.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.RegisterSniffer("amr", amrnb.SourceDecoder{}, amrnb.Sniff)
	reg.RegisterSniffer("wav", wav.Decoder{}, wav.Sniff)
	reg.RegisterSniffer("aiff", aiff.Decoder{}, aiff.Sniff)
	reg.RegisterSniffer("ogg", vorbis.Decoder{}, vorbis.Sniff)
	reg.RegisterSniffer("mp3", mp3.Decoder{}, mp3.Sniff)
	return reg
}
