package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tabiq/internal/ingest"
)

// DatasetInfo describes a discovered dataset file.
type DatasetInfo struct {
	Path    string
	Name    string
	Format  ingest.Format
	Size    int64
	ModTime time.Time
}

// Discovery finds dataset files under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath. Relative
// directory arguments resolve against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindDatasets returns the decodable dataset files directly under dir,
// oldest first. Temp files and unsupported extensions are skipped.
func (d *Discovery) FindDatasets(dir string) ([]DatasetInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", fullPath, err)
	}

	var datasets []DatasetInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}

		format, err := ingest.DetectFormat(entry.Name())
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		datasets = append(datasets, DatasetInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].ModTime.Before(datasets[j].ModTime)
	})
	return datasets, nil
}

// FindByPattern returns dataset files under dir matching the glob
// pattern. Matches in unsupported formats are skipped.
func (d *Discovery) FindByPattern(dir, pattern string) ([]DatasetInfo, error) {
	matches, err := filepath.Glob(filepath.Join(d.resolve(dir), pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var datasets []DatasetInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}

		format, err := ingest.DetectFormat(match)
		if err != nil {
			continue
		}

		datasets = append(datasets, DatasetInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return datasets, nil
}

// Latest returns the most recently modified dataset in the list.
func Latest(datasets []DatasetInfo) (DatasetInfo, bool) {
	if len(datasets) == 0 {
		return DatasetInfo{}, false
	}

	latest := datasets[0]
	for _, ds := range datasets[1:] {
		if ds.ModTime.After(latest.ModTime) {
			latest = ds
		}
	}
	return latest, true
}
