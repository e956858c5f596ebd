package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const wavBitsPerSample = 16

// WriteWAV writes a canonical PCM WAV file: a RIFF header, a 16-byte "fmt "
// chunk, and a data chunk holding the requested number of silent frames.
// A zero frame count produces a valid file with an empty data chunk.
func WriteWAV(t testing.TB, path string, sampleRate, channels, frames int) {
	t.Helper()

	data := buildWAV(sampleRate, channels, frames)
	writeBytes(t, path, data)
}

// WriteTruncatedWAV writes a WAV file whose data chunk declares the full
// frame count but whose payload is short by dropBytes.
func WriteTruncatedWAV(t testing.TB, path string, sampleRate, channels, frames, dropBytes int) {
	t.Helper()

	data := buildWAV(sampleRate, channels, frames)
	if dropBytes > 0 && dropBytes < len(data) {
		data = data[:len(data)-dropBytes]
	}
	writeBytes(t, path, data)
}

func buildWAV(sampleRate, channels, frames int) []byte {
	blockAlign := channels * wavBitsPerSample / 8
	dataLen := frames * blockAlign

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(wavBitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
