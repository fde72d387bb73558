package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// TarXZ writes tar containers compressed with xz, extractable by any
// generic tar/xz tooling.
type TarXZ struct{}

func NewTarXZ() *TarXZ {
	return &TarXZ{}
}

func (*TarXZ) Extension() string { return ".xz" }

// Create streams src into a new container at dst. The container is
// written next to dst under a dot-prefixed temp name and renamed into
// place, so dst never holds a partial archive.
func (t *TarXZ) Create(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(dst), ".tmp-"+filepath.Base(dst))
	if err := writeContainer(tmp, filepath.Base(src), info, in); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func writeContainer(path, entryName string, info os.FileInfo, r io.Reader) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	xzw, err := xz.NewWriter(out)
	if err != nil {
		return fmt.Errorf("starting xz stream: %w", err)
	}
	tw := tar.NewWriter(xzw)

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("building tar header: %w", err)
	}
	hdr.Name = entryName

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing tar header: %w", err)
	}
	if _, err := io.Copy(tw, r); err != nil {
		return fmt.Errorf("compressing %s: %w", entryName, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar stream: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("closing xz stream: %w", err)
	}

	return out.Sync()
}
