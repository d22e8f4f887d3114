//go:build !unix

// Package mmfile maps hive files read-only into memory.
package mmfile

import "os"

// Map reads the whole file on platforms without a unix mmap.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
