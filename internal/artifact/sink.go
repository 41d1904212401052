package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

// DefaultMinFreeBytes mirrors the recorder's storage floor: refuse work
// that would leave less than 1GB free on the artifact volume.
const DefaultMinFreeBytes = 1024 * 1024 * 1024

// Sink persists a fully assembled artifact and returns its location.
type Sink interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// CapacityChecker is an optional Sink capability, consulted before a
// known-length body starts streaming.
type CapacityChecker interface {
	EnsureCapacity(n int64) error
}

// FileSink writes artifacts under Dir with a temp-then-rename scheme, so a
// failed write never leaves a partial artifact behind. Name collisions
// renew to name-(1).ext style instead of overwriting.
type FileSink struct {
	Dir          string
	MinFreeBytes uint64 // 0 disables the capacity check
	log          zerolog.Logger
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{
		Dir:          dir,
		MinFreeBytes: DefaultMinFreeBytes,
		log:          utils.GetLogger("artifact"),
	}
}

func (s *FileSink) Store(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("artifact name is empty")
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %v", err)
	}
	outputPath := filepath.Join(s.Dir, name)
	if _, err := os.Stat(outputPath); err == nil {
		outputPath = renewOutputPath(outputPath)
	}
	tempPath := outputPath + ".part"
	if err := writeTemp(tempPath, data); err != nil {
		return "", err
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("error renaming temp file: %v", err)
	}
	s.log.Debug().Str("path", outputPath).Int("bytes", len(data)).Msg("Artifact persisted")
	return outputPath, nil
}

// writeTemp releases the handle and removes the temp file on every failure
// path.
func writeTemp(tempPath string, data []byte) error {
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error creating temp file: %v", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("error writing temp file: %v", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("error syncing temp file: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("error closing temp file: %v", err)
	}
	return nil
}

// EnsureCapacity refuses a write that would drop the artifact volume below
// MinFreeBytes. Stat failures skip the check rather than block downloads.
func (s *FileSink) EnsureCapacity(n int64) error {
	if s.MinFreeBytes == 0 || n <= 0 {
		return nil
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	usage, err := disk.Usage(dir)
	if err != nil {
		// Dir may not exist until the first Store; fall back to its parent.
		usage, err = disk.Usage(filepath.Dir(dir))
		if err != nil {
			return nil
		}
	}
	if usage.Free < uint64(n)+s.MinFreeBytes {
		return fmt.Errorf("insufficient disk space: %s free, need %s plus %s floor",
			utils.FormatBytes(usage.Free), utils.FormatBytes(uint64(n)), utils.FormatBytes(s.MinFreeBytes))
	}
	return nil
}

func renewOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	index := 1
	for {
		outputPath = filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return outputPath
		}
		index++
	}
}
