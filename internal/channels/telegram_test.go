package channels

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/config/channel"
	"github.com/skillbox/skillbox/internal/schema"
)

func TestTelegramFile(t *testing.T) {
	assert.Equal(t, tgbotapi.FileURL("https://x/a.jpg"), telegramFile(schema.RemoteImagePart("https://x/a.jpg")))

	f, ok := telegramFile(schema.LocalImagePart("/media/cat.png", []byte("png"))).(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "cat.png", f.Name)
	assert.Equal(t, []byte("png"), f.Bytes)
}

func TestTelegramMention(t *testing.T) {
	assert.Equal(t, `<a href="tg://user?id=42">@bob</a> `, telegramMention("42", "bob"))
	assert.Equal(t, `<a href="tg://user?id=42">@42</a> `, telegramMention("42", ""))
}

func TestEscapeText(t *testing.T) {
	in := []schema.ContentPart{schema.TextPart("1 < 2 & 3 > 2"), schema.RemoteImagePart("https://x/?a=1&b=2")}
	out := escapeText(in)
	assert.Equal(t, "1 &lt; 2 &amp; 3 &gt; 2", out[0].Text)
	assert.Equal(t, "https://x/?a=1&b=2", out[1].URL)
	assert.Equal(t, "1 < 2 & 3 > 2", in[0].Text, "input is not modified")
}

func TestTelegramAddressed(t *testing.T) {
	tc := &TelegramChannel{cfg: &channel.TelegramConfig{GroupPolicy: "mention"},
		bot: &tgbotapi.BotAPI{Self: tgbotapi.User{UserName: "skillbot"}}}

	_, ok := tc.addressed("天气 北京")
	assert.False(t, ok)

	text, ok := tc.addressed("@skillbot 天气 北京")
	assert.True(t, ok)
	assert.Equal(t, "天气 北京", text)

	tc.cfg.GroupPolicy = "open"
	text, ok = tc.addressed("菜单")
	assert.True(t, ok)
	assert.Equal(t, "菜单", text)
}

func TestParseChatID(t *testing.T) {
	id, err := parseChatID("-100123")
	require.NoError(t, err)
	assert.Equal(t, int64(-100123), id)

	_, err = parseChatID("group:1")
	assert.Error(t, err)
}

func TestMetadataInt(t *testing.T) {
	md := map[string]any{"a": 3, "b": float64(4), "c": int64(5), "d": "x"}
	assert.Equal(t, 3, metadataInt(md, "a"))
	assert.Equal(t, 4, metadataInt(md, "b"))
	assert.Equal(t, 5, metadataInt(md, "c"))
	assert.Equal(t, 0, metadataInt(md, "d"))
	assert.Equal(t, 0, metadataInt(nil, "a"))
}
