package deezer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/deezer-grabber/internal/constants"
	"github.com/oshokin/deezer-grabber/internal/logger"
	"github.com/oshokin/deezer-grabber/internal/utils"
)

const (
	// File options for overwriting an existing file.
	overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

	// File options for creating a new file (fails if the file already exists).
	createNewFileOptions = os.O_CREATE | os.O_EXCL | os.O_WRONLY
)

// saveFileIfAbsent writes data to destinationPath unless the file already exists.
// It reports whether the file was already present.
func (s *ServiceImpl) saveFileIfAbsent(ctx context.Context, data []byte, destinationPath string) (bool, error) {
	file, err := os.OpenFile(filepath.Clean(destinationPath), createNewFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		if os.IsExist(err) {
			logger.Infof(ctx, "File '%s' already exists, skipping download", destinationPath)

			return true, nil
		}

		return false, err
	}

	defer file.Close()

	_, err = file.Write(data)

	return false, err
}

func (s *ServiceImpl) truncateFolderName(ctx context.Context, pattern, name string) string {
	// Check if the folder name exceeds the maximum allowed length.
	if s.cfg.MaxFolderNameLength > 0 && int64(len([]rune(name))) > s.cfg.MaxFolderNameLength {
		// Truncate the name to the maximum length.
		truncated := string([]rune(name)[:s.cfg.MaxFolderNameLength])
		logger.Infof(ctx, "%s folder name was truncated to %d characters", pattern, s.cfg.MaxFolderNameLength)

		return truncated
	}

	return name
}

func (s *ServiceImpl) generateSanitizedFolderPath(ctx context.Context, rawPath string) string {
	// Split using both separators to handle mixed/foreign path formats.
	components := strings.FieldsFunc(rawPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	sanitizedComponents := make([]string, 0, len(components))
	for _, component := range components {
		// Sanitize each component individually to prevent path traversal attacks.
		sanitizedComponents = append(sanitizedComponents, utils.SanitizeFilename(component))
	}

	joinedPath := filepath.Join(sanitizedComponents...)

	return s.truncateFolderName(ctx, "Album", joinedPath)
}
