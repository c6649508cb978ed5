package constants

import "strings"

// AllowedExtensions holds the default allowed file extensions for token-dump ingestion.
// Token dumps are the JSON files emitted by the external text-and-geometry
// extraction step, one per cutting sheet.
var AllowedExtensions = map[string]struct{}{
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
