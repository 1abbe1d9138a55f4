package file

import "os"

// WriteCollection may write directly; this package owns the collections.
func WriteCollection(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644) // No want
}
