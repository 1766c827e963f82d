package termpix

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// MaxImageFileSize caps how much image data is read from a file or stdin.
const MaxImageFileSize = 50 * 1024 * 1024 // 50 MiB

const stdinChunkSize = 64 * 1024

// ReadImageFile reads an image file into memory, rejecting anything that is
// not a regular, non-empty file within the size cap before any bytes are
// read.
func ReadImageFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	if fi.Size() > MaxImageFileSize {
		return nil, fmt.Errorf("%s is %d bytes: %w", path, fi.Size(), ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	// The file may have grown between stat and read.
	if len(data) > MaxImageFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	return data, nil
}

// ReadImageStdin reads image data from standard input in chunks, enforcing
// the same size cap as file input. An interactive stdin means the user
// forgot to pipe anything; fail fast instead of blocking on a read.
func ReadImageStdin() ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrStdinIsTerminal
	}
	return readCapped(os.Stdin)
}

func readCapped(r io.Reader) ([]byte, error) {
	var data []byte
	buf := make([]byte, stdinChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if len(data)+n > MaxImageFileSize {
				return nil, ErrFileTooLarge
			}
			data = append(data, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	return data, nil
}
