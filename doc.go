// SPDX-License-Identifier: EPL-2.0

// Package audamr plays and records AMR-NB voice clips.
//
// A Runtime owns the shared pieces: the codec bridge, the playback
// manager (one playback at a time), the recorder and the decoder
// registry. Clips are created from it and initialised exactly once, from
// AMR bytes, a reader, a file, a URL or the microphone:
//
//	rt, err := audamr.NewRuntime(nil)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	clip := rt.NewClip()
//	clip.On(audamr.EventEnded, func() { fmt.Println("done") })
//	if err := clip.InitWithFile(ctx, "hello.amr"); err != nil {
//	    return err
//	}
//	err = clip.Play()
//
// Bytes that are not AMR are run through the registry (WAV, AIFF, MP3,
// Ogg Vorbis), converted to AMR and decoded again, so every clip plays
// the same 8 kHz audio it would export with Blob.
//
// Recording:
//
//	clip := rt.NewClip()
//	_ = clip.InitWithRecord(ctx)
//	_ = clip.StartRecord()
//	// ...
//	err := clip.FinishRecord(ctx)
//	blob, err := clip.Blob() // audio/amr
package audamr
