package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/schema"
)

func textOf(parts []schema.ContentPart) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Kind == schema.PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func TestNormalizePlainText(t *testing.T) {
	n := NewNormalizer(nil)
	for _, s := range []string{"hello", "", "  spaced  ", "[not](an image)", "![alt](relative/path.png)"} {
		parts := n.Normalize(s, "u1", false)
		assert.Equal(t, []schema.ContentPart{schema.TextPart(s)}, parts, "input %q", s)
	}
}

func TestNormalizeMentionPrepended(t *testing.T) {
	n := NewNormalizer(nil)
	parts := n.Normalize("hi", "u42", true)
	require.Len(t, parts, 2)
	assert.Equal(t, schema.MentionPart("u42"), parts[0])
	assert.Equal(t, schema.TextPart("hi"), parts[1])
}

func TestNormalizeMentionWithEmptySender(t *testing.T) {
	n := NewNormalizer(nil)
	parts := n.Normalize("hi", "", true)
	require.Len(t, parts, 2)
	assert.Equal(t, schema.MentionPart(""), parts[0])
	assert.Equal(t, schema.TextPart("hi"), parts[1])
}

func TestNormalizeURLWithParentheses(t *testing.T) {
	n := NewNormalizer(nil)
	raw := "see ![go](https://en.wikipedia.org/wiki/Go_(language).png) now"
	parts := n.Normalize(raw, "u1", false)

	require.Len(t, parts, 3)
	assert.Equal(t, schema.RemoteImagePart("https://en.wikipedia.org/wiki/Go_(language).png"), parts[1])
	assert.Equal(t, schema.TextPart(" now"), parts[2])
	assert.Equal(t, "see  now", StripImages(raw))
}

func TestNormalizeRemoteImagesKeepOrder(t *testing.T) {
	n := NewNormalizer(nil)
	raw := "before ![a](https://x.test/1.png) middle ![b](http://x.test/2.jpg) after"
	parts := n.Normalize(raw, "u1", false)

	require.Len(t, parts, 5)
	assert.Equal(t, schema.TextPart("before "), parts[0])
	assert.Equal(t, schema.RemoteImagePart("https://x.test/1.png"), parts[1])
	assert.Equal(t, schema.TextPart(" middle "), parts[2])
	assert.Equal(t, schema.RemoteImagePart("http://x.test/2.jpg"), parts[3])
	assert.Equal(t, schema.TextPart(" after"), parts[4])
	assert.Equal(t, StripImages(raw), textOf(parts))
}

func TestNormalizeAdjacentImagesNoEmptyText(t *testing.T) {
	n := NewNormalizer(nil)
	parts := n.Normalize("![a](https://x.test/1.png)![b](https://x.test/2.png)", "", false)
	require.Len(t, parts, 2)
	assert.Equal(t, schema.PartRemoteImage, parts[0].Kind)
	assert.Equal(t, schema.PartRemoteImage, parts[1].Kind)
}

func TestNormalizeRoundTripNoDuplicatedText(t *testing.T) {
	n := NewNormalizer(nil)
	inputs := []string{
		"今日Bing图片：\n![Bing Image](https://cn.bing.com/a.jpg)",
		"![早报图片](https://img.test/z.png)",
		"a ![1](https://h/1) b ![2](https://h/2) c ![3](https://h/3)",
		"---\n![随机图片1](https://h/1)\n---\n",
	}
	for _, raw := range inputs {
		parts := n.Normalize(raw, "", false)
		assert.Equal(t, StripImages(raw), textOf(parts), "input %q", raw)
	}
}

func TestNormalizeLocalImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(img, []byte("PNGDATA"), 0o644))

	n := NewNormalizer([]string{dir})
	parts := n.Normalize("look ![x]("+img+") done", "", false)

	require.Len(t, parts, 3)
	assert.Equal(t, schema.PartLocalImage, parts[1].Kind)
	assert.Equal(t, img, parts[1].Path)
	assert.Equal(t, []byte("PNGDATA"), parts[1].Data)
}

func TestNormalizeLocalImageFailureIsInline(t *testing.T) {
	dir := t.TempDir()
	n := NewNormalizer([]string{dir})
	missing := filepath.Join(dir, "missing.png")

	parts := n.Normalize("a ![x]("+missing+") b ![y](https://h/ok.png)", "", false)

	require.Len(t, parts, 4)
	assert.Equal(t, schema.TextPart("a "), parts[0])
	assert.Equal(t, schema.PartText, parts[1].Kind)
	assert.Contains(t, parts[1].Text, "missing.png")
	assert.Equal(t, schema.TextPart(" b "), parts[2])
	assert.Equal(t, schema.RemoteImagePart("https://h/ok.png"), parts[3])

	parts = n.Normalize("a ![x]("+missing+") b ![y](https://h/ok.png) c", "", false)
	require.Len(t, parts, 5)
	assert.Equal(t, schema.TextPart(" c"), parts[4])
}

func TestNormalizeLocalImageOutsideRoots(t *testing.T) {
	allowed := t.TempDir()
	other := t.TempDir()
	img := filepath.Join(other, "secret.png")
	require.NoError(t, os.WriteFile(img, []byte("x"), 0o644))

	n := NewNormalizer([]string{allowed})
	parts := n.Normalize("![x]("+img+")", "", false)

	require.Len(t, parts, 1)
	assert.Equal(t, schema.PartText, parts[0].Kind)

	_, err := n.loadLocal(filepath.Join(allowed, "..", filepath.Base(other), "secret.png"))
	assert.ErrorIs(t, err, ErrImagePart)
}
