package objectstore

import (
	"io"
	"os"
)

// plainCopy is used only when no IoContext is available (e.g. unit tests
// exercising a BlobStore directly); normal operation always goes through
// an IoContext so large blobs can take a reflink-aware path.
func plainCopy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
