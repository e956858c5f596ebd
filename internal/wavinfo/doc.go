// Package wavinfo derives playback durations from WAV container headers.
//
// Only the RIFF/WAVE format chunk and the data chunk's declared length are
// read; the audio payload itself is never loaded. Duration is computed as
// frames * 1000 / sample rate with integer floor division, where the frame
// count is the data chunk length divided by the block align (channels times
// bytes per sample).
//
// Failures are classified by two sentinel errors: ErrUnreadable when the
// file cannot be opened at all, and ErrMalformed when the bytes cannot be
// parsed as a WAV container (missing chunks, zero sample rate, truncated
// data). Callers match them with errors.Is.
package wavinfo
