package channels

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/schema"
)

func TestIsAllowed(t *testing.T) {
	open := NewBase(bus.ChannelCLI, nil, nil)
	assert.True(t, open.IsAllowed("anyone"))

	b := NewBase(bus.ChannelTelegram, nil, []string{"42", "alice"})
	assert.True(t, b.IsAllowed("42"))
	assert.True(t, b.IsAllowed("7", "alice"))
	assert.False(t, b.IsAllowed("7", ""))
	assert.False(t, b.IsAllowed())
}

func TestHandleMessagePublishes(t *testing.T) {
	in := bus.NewInboundBus(1)
	b := NewBase(bus.ChannelOneBot, in, nil)
	b.HandleMessage("10001", "group:1", "菜单", map[string]any{"is_group": true})

	msg := <-in.Subscribe()
	assert.Equal(t, bus.ChannelOneBot, msg.Channel())
	assert.Equal(t, "10001", msg.SenderId())
	assert.Equal(t, "group:1", msg.ChatId())
	assert.Equal(t, "菜单", msg.Content())
	assert.Equal(t, true, msg.Metadata()["is_group"])
}

func TestSegmentParts(t *testing.T) {
	parts := []schema.ContentPart{
		schema.MentionPart("u1"),
		schema.TextPart("今日Bing图片：\n"),
		schema.RemoteImagePart("https://x/a.jpg"),
		schema.TextPart("   "),
		schema.LocalImagePart("/m/b.png", []byte{1}),
		schema.TextPart("end"),
	}
	segs := segmentParts(parts, func(id string) string { return "@" + id + " " })

	require.Len(t, segs, 4)
	assert.Equal(t, "@u1 今日Bing图片：\n", segs[0].text)
	assert.Equal(t, "https://x/a.jpg", segs[1].image.URL)
	assert.Equal(t, "/m/b.png", segs[2].image.Path, "whitespace-only text between images is dropped")
	assert.Equal(t, "end", segs[3].text)
}

func TestSegmentPartsSkipsEmptyMention(t *testing.T) {
	parts := []schema.ContentPart{schema.MentionPart(""), schema.TextPart("hi")}
	segs := segmentParts(parts, func(id string) string { return "@" + id + " " })

	require.Len(t, segs, 1)
	assert.Equal(t, "hi", segs[0].text)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	chunks := splitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one", "line two", "line three"}, chunks)

	chunks = splitMessage("aaaa bbbb cccc", 9)
	assert.Equal(t, []string{"aaaa", "bbbb cccc"}, chunks)

	long := strings.Repeat("天气", 10) // 60 bytes, no break points
	chunks = splitMessage(long, 10)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %q splits a rune", c)
		assert.LessOrEqual(t, len(c), 10)
	}
	assert.Equal(t, long, strings.Join(chunks, ""))
}
