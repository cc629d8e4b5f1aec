//go:build !unix

package engine

import (
	"io"
	"os"
)

func mapRegion(f *os.File, offset, length int64) ([]byte, func() error, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(io.NewSectionReader(f, offset, length), buf); err != nil {
		return nil, nil, err
	}
	return buf, nil, nil
}
