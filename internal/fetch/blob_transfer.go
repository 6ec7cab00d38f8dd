package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"golang.org/x/sync/errgroup"

	"github.com/bbockelm/cellpainting-download/internal/metrics"
)

// BlobTransferer mirrors a measurement prefix by reading the bucket directly,
// with no external client process. Local files are reconciled against the
// remote listing by size, so partial state left by an interrupted earlier
// attempt is detected and re-fetched instead of trusted.
type BlobTransferer struct {
	bucketURL string
	workers   int
	logger    *slog.Logger
}

// NewBlobTransferer creates a BlobTransferer downloading up to workers
// objects concurrently.
func NewBlobTransferer(bucketURL string, workers int, logger *slog.Logger) *BlobTransferer {
	return &BlobTransferer{bucketURL: bucketURL, workers: workers, logger: logger}
}

// Mirror lists the remote prefix and downloads every object into localDir,
// preserving the key hierarchy below the prefix.
func (t *BlobTransferer) Mirror(ctx context.Context, measurement, localDir string) error {
	bucket, err := blob.OpenBucket(ctx, t.bucketURL)
	if err != nil {
		return fmt.Errorf("open bucket %s: %w", t.bucketURL, err)
	}
	defer bucket.Close()

	prefix := strings.Trim(measurement, "/") + "/"

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	total := 0
	it := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			// A failed download cancels the group context, which shows up
			// here as a list error on the next page; the download error is
			// the real cause and must win.
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("list prefix %s: %w", prefix, err)
		}
		if obj.IsDir {
			continue
		}

		total++
		g.Go(func() error {
			return t.fetchObject(ctx, bucket, obj, prefix, localDir)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("prefix %s: no objects found", prefix)
	}

	t.logger.Info("prefix mirrored", "prefix", prefix, "objects", total, "local_dir", localDir)
	return nil
}

func (t *BlobTransferer) fetchObject(ctx context.Context, bucket *blob.Bucket, obj *blob.ListObject, prefix, localDir string) error {
	rel := strings.TrimPrefix(obj.Key, prefix)
	dst := filepath.Join(localDir, filepath.FromSlash(rel))

	// Size reconciliation: an existing file only counts when it matches the
	// listed object size.
	if info, err := os.Stat(dst); err == nil && info.Size() == obj.Size {
		t.logger.Debug("object already mirrored", "key", obj.Key)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("object %s: %w", obj.Key, err)
	}

	r, err := bucket.NewReader(ctx, obj.Key, nil)
	if err != nil {
		return fmt.Errorf("object %s: %w", obj.Key, err)
	}
	defer r.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("object %s: %w", obj.Key, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("object %s: %w", obj.Key, err)
	}
	if n != obj.Size {
		os.Remove(dst)
		return fmt.Errorf("object %s: size mismatch: got %d, want %d", obj.Key, n, obj.Size)
	}

	metrics.BytesMirrored.Add(float64(n))
	return nil
}
