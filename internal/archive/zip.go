// Package archive packs a mirrored measurement directory into a single zip.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bbockelm/cellpainting-download/internal/metrics"
)

// PackDir writes every regular file under root into a zip at dst, deleting
// each source file as soon as it has been archived. That keeps peak disk
// usage near one measurement's worth of data instead of two. Returns the
// number of files packed.
func PackDir(root, dst string) (int, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	count := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("pack %s: %w", rel, err)
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove packed file %s: %w", rel, err)
		}

		count++
		metrics.FilesPacked.Inc()
		return nil
	})

	if walkErr != nil {
		zw.Close()
		out.Close()
		return count, walkErr
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return count, fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return count, fmt.Errorf("close archive: %w", err)
	}
	return count, nil
}
