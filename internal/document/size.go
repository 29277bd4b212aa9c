package document

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const mib = 1 << 20

// FormatSize renders a byte count the way the vault lists it: KB below one
// MiB, MB from there on, one decimal place.
func FormatSize(bytes int64) string {
	if bytes < mib {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/mib)
}

// ContentType picks the declared type, then the extension's, then a generic one.
func ContentType(declared, fileName string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" {
		return declared
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); t != "" {
		return t
	}
	return "application/octet-stream"
}
