// Package content turns a skill's raw reply string into typed reply parts.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
)

// ErrImagePart classifies a local image that could not be loaded.
var ErrImagePart = errors.New("image part failed")

// imageRef matches ![alt](target) where target is an absolute http(s) URL
// or an absolute filesystem path. Targets may contain balanced, unnested
// parentheses ("/wiki/Go_(language).png").
var imageRef = regexp.MustCompile(`!\[[^\]]*\]\((https?://(?:[^\s()]|\([^\s()]*\))+|/(?:[^\s()]|\([^\s()]*\))*)\)`)

// span is one image reference located in the raw string.
type span struct {
	start, end int
	target     string
	remote     bool
}

// Normalizer converts raw reply strings into ContentPart sequences.
type Normalizer struct {
	roots    []string
	readFile func(string) ([]byte, error)
}

// NewNormalizer returns a Normalizer that reads local images only below the
// given roots. With no roots every absolute path is readable.
func NewNormalizer(allowedDirs []string) *Normalizer {
	roots := make([]string, 0, len(allowedDirs))
	for _, d := range allowedDirs {
		if d == "" {
			continue
		}
		if abs, err := filepath.Abs(d); err == nil {
			roots = append(roots, filepath.Clean(abs))
		}
	}
	return &Normalizer{roots: roots, readFile: os.ReadFile}
}

// Normalize scans raw for image references and returns the ordered parts.
// The result is never empty. With needsMention the first part is always a
// Mention, even for an empty senderID; channels render that as nothing.
func (n *Normalizer) Normalize(raw, senderID string, needsMention bool) []schema.ContentPart {
	var parts []schema.ContentPart
	if needsMention {
		parts = append(parts, schema.MentionPart(senderID))
	}

	spans := scan(raw)
	if len(spans) == 0 {
		return append(parts, schema.TextPart(raw))
	}

	cursor := 0
	for _, sp := range spans {
		if lead := raw[cursor:sp.start]; lead != "" {
			parts = append(parts, schema.TextPart(lead))
		}
		parts = append(parts, n.imagePart(sp))
		cursor = sp.end
	}
	if tail := raw[cursor:]; tail != "" {
		parts = append(parts, schema.TextPart(tail))
	}
	return parts
}

func scan(raw string) []span {
	locs := imageRef.FindAllStringSubmatchIndex(raw, -1)
	out := make([]span, 0, len(locs))
	for _, loc := range locs {
		target := raw[loc[2]:loc[3]]
		out = append(out, span{
			start:  loc[0],
			end:    loc[1],
			target: target,
			remote: strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"),
		})
	}
	return out
}

func (n *Normalizer) imagePart(sp span) schema.ContentPart {
	if sp.remote {
		return schema.RemoteImagePart(sp.target)
	}
	data, err := n.loadLocal(sp.target)
	if err != nil {
		slog.Warn("content: local image unavailable", "path", sp.target, "err", err)
		return schema.TextPart(fmt.Sprintf("[图片加载失败: %s]", filepath.Base(sp.target)))
	}
	return schema.LocalImagePart(sp.target, data)
}

func (n *Normalizer) loadLocal(path string) ([]byte, error) {
	clean := filepath.Clean(path)
	if !n.allowed(clean) {
		return nil, fmt.Errorf("%w: %s is outside the media directories", ErrImagePart, clean)
	}
	data, err := n.readFile(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImagePart, err)
	}
	return data, nil
}

func (n *Normalizer) allowed(path string) bool {
	if len(n.roots) == 0 {
		return true
	}
	for _, root := range n.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// StripImages removes every image reference from raw. Concatenating the text
// parts of Normalize(raw) yields StripImages(raw) when no local read failed.
func StripImages(raw string) string {
	return imageRef.ReplaceAllLiteralString(raw, "")
}
