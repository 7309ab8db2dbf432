// Package archive keeps gzip-compressed landing copies of fetched source
// bodies, one directory per batch.
package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
)

// Dir writes bodies to <root>/<batchID>/<name>.json.gz.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at root. The directory is created on first save.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Path returns the file a body for batchID and name is written to.
func (a *Dir) Path(batchID, name string) string {
	if batchID == "" {
		batchID = "unbatched"
	}
	return filepath.Join(a.root, batchID, name+".json.gz")
}

// Save compresses body into the batch directory, replacing any earlier
// copy with the same name.
func (a *Dir) Save(ctx context.Context, batchID, name string, body []byte) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := a.Path(batchID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create batch dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = errors.Wrapf(err, "close %s", path)
		}
	}()

	gz := pgzip.NewWriter(f)
	gz.Name = name + ".json"
	if _, err := gz.Write(body); err != nil {
		_ = gz.Close()
		return errors.Wrapf(err, "compress %s", path)
	}
	if err := gz.Close(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}

	return nil
}

// Nop discards bodies.
type Nop struct{}

// Save does nothing.
func (Nop) Save(context.Context, string, string, []byte) error { return nil }
