// Package filex contains small file helpers used by the client.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Read loads the file at path and returns its base name, sniffed MIME type
// and contents. Intended for image attachments, which are small enough to
// hold in memory until the enclosing draft is submitted.
func Read(path string) (name, contentType string, data []byte, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return "", "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return filepath.Base(path), http.DetectContentType(data), data, nil
}
