package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Member describes one file stored inside an archive.
type Member struct {
	Name    string // slash-separated path relative to the archived source root
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// List returns the members of an archive in stored order.
func List(path string) ([]Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip stream of %s: %w", path, err)
	}
	defer gz.Close()

	var members []Member
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar stream of %s: %w", path, err)
		}
		members = append(members, Member{
			Name:    hdr.Name,
			Size:    hdr.Size,
			ModTime: hdr.ModTime,
			Mode:    hdr.FileInfo().Mode(),
		})
	}

	return members, nil
}

// Extract unpacks an archive into destDir, recreating the relative member
// paths. Member names that would escape destDir are rejected.
func Extract(path, destDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read gzip stream of %s: %w", path, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar stream of %s: %w", path, err)
		}

		target, err := secureJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeMember(target, tr, hdr); err != nil {
				return err
			}
		default:
			// Other member types are not produced by the writer; skip.
		}
	}
}

// secureJoin joins a tar member name onto destDir, rejecting names that
// resolve outside it.
func secureJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if target != destDir && !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member escapes destination: %s", name)
	}
	return target, nil
}

func writeMember(target string, r io.Reader, hdr *tar.Header) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", target, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}

	if err := os.Chtimes(target, hdr.ModTime, hdr.ModTime); err != nil {
		return fmt.Errorf("failed to restore mtime of %s: %w", target, err)
	}
	return nil
}
