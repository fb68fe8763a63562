package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDir turns dirName into an absolute path (relative names are taken
// from the working directory) and checks that it is an existing directory.
func ResolveDir(dirName string) (string, error) {
	dir, err := filepath.Abs(dirName)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dirName, err)
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	return dir, nil
}
