// Package validation checks file paths and uploads before any table work
// starts, so decode errors never carry half-read data.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tabiq/internal/ingest"
)

// FileValidator checks uploads and filesystem paths used by the API and
// the CLI.
type FileValidator struct {
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewFileValidator creates a validator. maxUploadBytes of zero disables
// the size check.
func NewFileValidator(logger *slog.Logger, maxUploadBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// ValidateUpload checks an uploaded file's name and declared size before
// its body is read. It returns the detected format.
func (v *FileValidator) ValidateUpload(filename string, size int64) (ingest.Format, error) {
	base := filepath.Base(filename)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("upload has no filename")
	}
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejecting office temp file upload",
			slog.String("filename", base))
		return "", fmt.Errorf("%s is a temporary office file", base)
	}

	format, err := ingest.DetectFormat(base)
	if err != nil {
		v.logger.Warn("rejecting upload with unsupported extension",
			slog.String("filename", base))
		return "", err
	}

	if size == 0 {
		return "", fmt.Errorf("%s is empty", base)
	}
	if v.maxUploadBytes > 0 && size > v.maxUploadBytes {
		v.logger.Warn("rejecting oversized upload",
			slog.String("filename", base),
			slog.Int64("size", size),
			slog.Int64("limit", v.maxUploadBytes))
		return "", fmt.Errorf("%s exceeds the %d byte upload limit", base, v.maxUploadBytes)
	}

	v.logger.Debug("upload validated",
		slog.String("filename", base),
		slog.String("format", string(format)),
		slog.Int64("size", size))
	return format, nil
}

// ValidateInputFile checks that a CLI input path exists, is a regular
// file, is readable, and has a decodable extension.
func (v *FileValidator) ValidateInputFile(path string) (ingest.Format, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}

	format, err := ingest.DetectFormat(path)
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("input file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("input file validated",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ValidateOutputPath ensures the parent directory of an output path
// exists (creating it if needed) and is writable.
func (v *FileValidator) ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("output path validated",
		slog.String("path", path))
	return nil
}
