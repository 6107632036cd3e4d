package constants

import "strings"

// Artifact kinds handled by the processing pipeline.
const (
	PDF   = "PDF"
	AUDIO = "AUDIO"
	TEXT  = "TEXT"
)

// ArtifactKinds holds the allowed values for the kind field on a processing job.
var ArtifactKinds = []string{PDF, AUDIO, TEXT}

// AllowedExtensions holds the default allowed file extensions for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"wav": {},
	"mp3": {},
	"m4a": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind maps a file extension to an artifact kind, or "" if unsupported.
func MapExtToKind(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "wav", "mp3", "m4a", "aac":
		return AUDIO
	case "txt":
		return TEXT
	default:
		return ""
	}
}
