package textfile

import (
	"bufio"
	"fmt"
	"os"
)

// AppenderRepoImpl provides a concrete implementation for the LineAppender
// interface on the local filesystem.
type AppenderRepoImpl struct{}

// NewAppenderRepo creates a new instance of AppenderRepoImpl.
func NewAppenderRepo() *AppenderRepoImpl {
	return &AppenderRepoImpl{}
}

// AppendLines opens path for append (creating it if needed), writes one line
// per entry, then syncs and closes the file. Existing content is never
// truncated. The count returned on failure is the number of lines handed
// to the writer, some of which may not have reached the file.
func (r *AppenderRepoImpl) AppendLines(path string, lines []string) (int, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	written := 0
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			file.Close()
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return written, fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return written, fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return written, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return written, nil
}
