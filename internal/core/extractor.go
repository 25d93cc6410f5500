package core

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Extractor unpacks mod package archives into the cache
type Extractor struct {
	fs afero.Fs
}

// NewExtractor creates a new Extractor writing to fs
func NewExtractor(fs afero.Fs) *Extractor {
	return &Extractor{fs: fs}
}

// CanExtract returns true if the extractor can handle the given filename
func (e *Extractor) CanExtract(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".zip")
}

// Extract extracts a zip archive to destDir. It returns the number of files written.
func (e *Extractor) Extract(archivePath, destDir string) (count int, err error) {
	if !e.CanExtract(archivePath) {
		return 0, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath))
	}

	f, err := e.fs.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("opening zip: %w", err)
	}

	if err := e.fs.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("creating destination directory: %w", err)
	}

	for _, zf := range r.File {
		written, err := e.extractZipFile(zf, destDir)
		if err != nil {
			return count, err
		}
		if written {
			count++
		}
	}

	return count, nil
}

// extractZipFile extracts a single entry. written is false for directory entries.
func (e *Extractor) extractZipFile(f *zip.File, destDir string) (written bool, err error) {
	// Thunderstore packages are built on Windows more often than not
	name := strings.ReplaceAll(f.Name, `\`, "/")

	destPath, err := sanitizePath(destDir, name)
	if err != nil {
		return false, err
	}

	if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
		return false, e.fs.MkdirAll(destPath, 0755)
	}

	if err := e.fs.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return false, fmt.Errorf("opening file %s in archive: %w", name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", name, cerr)
		}
	}()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	outFile, err := e.fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return false, fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return false, fmt.Errorf("writing file %s: %w", destPath, err)
	}

	return true, nil
}

// sanitizePath ensures an archive entry stays inside destDir (zip slip)
func sanitizePath(destDir, filePath string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Clean(filePath))

	cleanDest := filepath.Clean(destDir)
	if destPath != cleanDest && !strings.HasPrefix(destPath, cleanDest+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected: %s", filePath)
	}

	return destPath, nil
}
