package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tmpPattern is appended to the archive name for the scratch file created
// in the destination directory. The suffix keeps temp files from ever
// matching the final *.tar.gz name, so a crashed run can be recognized and
// a pruner never touches one.
const tmpPattern = ".tmp-"

// Write streams the given files into a gzip-compressed tar in destDir and
// atomically renames it to name once fully written. Member names are the
// file paths relative to srcRoot, preserving subdirectory structure.
//
// An empty file list performs no I/O and returns an empty path. In dry-run
// mode nothing is created; the would-be final path is returned so callers
// can report it. On any write failure the temporary file is removed before
// the error propagates: the destination directory either gains the complete
// archive under its final name or is left untouched.
func Write(files []string, srcRoot, destDir, name string, dryRun bool) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	finalPath := filepath.Join(destDir, name)
	if dryRun {
		return finalPath, nil
	}

	tmp, err := os.CreateTemp(destDir, name+tmpPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive in %s: %w", destDir, err)
	}
	tmpPath := tmp.Name()

	if err := writeTar(tmp, files, srcRoot); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}

	// Flush to stable storage before publishing the name.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to publish archive %s: %w", name, err)
	}

	return finalPath, nil
}

func writeTar(w io.Writer, files []string, srcRoot string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, path := range files {
		if err := addFile(tw, path, srcRoot); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	return nil
}

func addFile(tw *tar.Writer, path, srcRoot string) error {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		return fmt.Errorf("failed to relativize %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to build tar header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(rel)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", rel, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", rel, err)
	}
	return nil
}
