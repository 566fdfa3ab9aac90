package pathutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// Link returns a link from the directory fromDir to target, relative and
// always slash-separated regardless of the host separator. Every segment is
// percent-encoded, so names containing spaces, "|", "#", "(" or ")" stay a
// single valid Markdown link target.
func Link(fromDir, target string) string {
	rel, err := filepath.Rel(Normalize(fromDir), Normalize(target))
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	rel = strings.ReplaceAll(rel, `\`, "/")

	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Display returns path relative to root, slash-separated, for use as a
// human-readable label. The root itself is shown as ".".
func Display(root, path string) string {
	rel, err := filepath.Rel(Normalize(root), Normalize(path))
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
