package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// collectPaths returns args followed by the paths listed in listFile, one per
// line. Blank lines and lines starting with # are skipped.
func collectPaths(args []string, listFile string) (paths []string, err error) {
	paths = append(paths, args...)
	if listFile == "" {
		return paths, nil
	}

	f, err := os.Open(listFile) // #nosec G304 - file path from user config is expected
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", listFile, err)
	}

	return paths, nil
}
