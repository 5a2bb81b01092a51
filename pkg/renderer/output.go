package renderer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteHTML writes a rendered page to a file, creating parent directories.
func WriteHTML(content []byte, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, content, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write page: %s", outputPath)
		return err
	}

	return err
}
