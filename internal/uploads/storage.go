// Package uploads moves raw camera files into object storage and registers
// them with the studio backend, tracking per-camera progress for the
// session creation wizard.
package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"slate/internal/services"
)

// Storage is the object store receiving raw camera files.
type Storage interface {
	// Upload streams body to key, reporting progress as a 0-100 percentage.
	Upload(ctx context.Context, key string, body io.Reader, size int64, progress func(pct int)) error
}

// progressReader reports cumulative read progress against a known size.
type progressReader struct {
	r        io.Reader
	size     int64
	read     int64
	lastPct  int
	progress func(pct int)
}

func newProgressReader(r io.Reader, size int64, progress func(pct int)) *progressReader {
	return &progressReader{r: r, size: size, lastPct: -1, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.progress != nil && p.size > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.size)
		if pct > 100 {
			pct = 100
		}
		if pct != p.lastPct {
			p.lastPct = pct
			p.progress(pct)
		}
	}
	return n, err
}

// LocalStorage writes uploads into a directory tree. It serves development
// setups without object storage credentials.
type LocalStorage struct {
	Dir string
}

func (l *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, progress func(pct int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "uploads", "local store", "create directory", err)
	}
	dest, err := os.Create(target)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "uploads", "local store", "create file", err)
	}
	if _, err := io.Copy(dest, newProgressReader(body, size, progress)); err != nil {
		dest.Close()
		os.Remove(target)
		return services.Wrap(services.ErrTransient, "uploads", "local store", "write file", err)
	}
	if err := dest.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "uploads", "local store", "close file", err)
	}
	return nil
}
