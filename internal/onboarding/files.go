package onboarding

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// FileFromPath describes a report on disk. Content is read lazily by the
// extraction pipeline.
func FileFromPath(path string) (domain.UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("stat report: %w", err)
	}
	if info.IsDir() {
		return domain.UploadedFile{}, fmt.Errorf("%s is a directory", path)
	}
	return domain.UploadedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
	}, nil
}

// FilesFromPaths describes every path, stopping at the first error.
func FilesFromPaths(paths []string) ([]domain.UploadedFile, error) {
	out := make([]domain.UploadedFile, 0, len(paths))
	for _, p := range paths {
		f, err := FileFromPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
