package policy

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// loadFromPaths reads .rego policy files from files or directories.
// Directory loading is recursive. The policy name is the file name
// without extension; loaded policies block on violation unless their
// deny entries downgrade themselves.
func loadFromPaths(paths []string) ([]Policy, error) {
	var policies []Policy
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("loading policies from %s: %w", path, err)
		}

		if !info.IsDir() {
			p, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			policies = append(policies, p)
			continue
		}

		err = filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(file, ".rego") {
				return nil
			}
			p, err := loadFile(file)
			if err != nil {
				return err
			}
			policies = append(policies, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("loading policies from %s: %w", path, err)
		}
	}
	return policies, nil
}

func loadFile(path string) (Policy, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Policy{
		Name:     name,
		Rego:     string(source),
		Severity: SeverityError,
		Enabled:  true,
	}, nil
}
