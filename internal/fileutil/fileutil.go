// Package fileutil provides the byte-copy primitives used when placing
// filtered files into the output tree.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst, truncating dst if it already exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileVerified copies src to dst, then re-reads dst from disk and fails
// unless the written bytes hash to the same SHA256 as the source. dst is
// removed when verification fails.
func CopyFileVerified(src, dst string) error {
	srcSum, srcSize, err := copyHashed(src, dst)
	if err != nil {
		return err
	}
	dstSum, dstSize, err := hashFile(dst)
	if err != nil {
		return err
	}
	if dstSize != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("verify %s: wrote %d bytes, source has %d", dst, dstSize, srcSize)
	}
	if !bytes.Equal(srcSum, dstSum) {
		_ = os.Remove(dst)
		return fmt.Errorf("verify %s: checksum differs from source", dst)
	}
	return nil
}

// copyHashed streams src to dst, hashing the source bytes as they pass.
func copyHashed(src, dst string) ([]byte, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, 0, err
	}

	h := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, h))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, 0, err
	}
	return h.Sum(nil), written, nil
}

func hashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), size, nil
}
