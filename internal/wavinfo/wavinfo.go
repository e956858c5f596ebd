package wavinfo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

var (
	// ErrUnreadable marks files that could not be opened for reading.
	ErrUnreadable = errors.New("unreadable audio file")
	// ErrMalformed marks files whose bytes do not form a valid WAV container.
	ErrMalformed = errors.New("malformed WAV container")
)

// Info holds the header metadata needed to describe a WAV file's length.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int64
	DurationMS int64
}

// Probe opens the file at path and reads enough of the container to report
// its format and duration. The data payload is skipped, not read.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Info{}, fmt.Errorf("%w: %s: read header: %v", ErrMalformed, path, err)
	}
	if d.SampleRate == 0 {
		return Info{}, fmt.Errorf("%w: %s: sample rate is zero", ErrMalformed, path)
	}
	blockAlign := int64(d.NumChans) * int64(d.BitDepth/8)
	if blockAlign == 0 {
		return Info{}, fmt.Errorf("%w: %s: zero block align (channels=%d bit depth=%d)", ErrMalformed, path, d.NumChans, d.BitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%w: %s: locate data chunk: %v", ErrMalformed, path, err)
	}
	dataLen := d.PCMLen()

	// The decoder trusts the declared chunk size; verify the payload bytes
	// actually exist so truncated files surface as malformed.
	offset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if dataLen > stat.Size()-offset {
		return Info{}, fmt.Errorf("%w: %s: data chunk declares %d bytes but only %d remain", ErrMalformed, path, dataLen, stat.Size()-offset)
	}

	frames := dataLen / blockAlign
	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Frames:     frames,
		DurationMS: frames * 1000 / int64(d.SampleRate),
	}, nil
}

// DurationMS reports the playback duration of the WAV file at path in whole
// milliseconds, rounded down.
func DurationMS(path string) (int64, error) {
	info, err := Probe(path)
	if err != nil {
		return 0, err
	}
	return info.DurationMS, nil
}
