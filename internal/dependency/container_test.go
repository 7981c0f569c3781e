package dependency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/schema"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Schedules = []config.ScheduleConfig{
		{Name: "ping", Expr: "*/5 * * * *", Message: "echo ping", Channel: "onebot", ChatID: "group:1"},
	}
	return &cfg
}

func TestNewWiresDispatch(t *testing.T) {
	c, err := New(testConfig(t), false)
	require.NoError(t, err)

	res := c.Loop().ProcessDirect(context.Background(), "10001", "echo hello world")
	require.True(t, res.Replied())
	assert.Equal(t, "hello world", schema.PlainText(res.Parts))

	assert.Contains(t, c.Registry().ListKeywords(), "菜单")
	assert.Contains(t, c.Help().ListAll(), "核心功能:")
	assert.Empty(t, c.Channels().EnabledChannels())
	assert.Len(t, c.Scheduler().Jobs(), 1)
}

func TestMenuTogglesDispatcherState(t *testing.T) {
	c, err := New(testConfig(t), true)
	require.NoError(t, err)
	ctx := context.Background()

	res := c.Dispatcher().Dispatch(ctx, "10001", "菜单 禁用 echo")
	require.True(t, res.Replied())
	assert.Equal(t, "已成功禁用功能 'echo'", schema.PlainText(res.Parts))
	assert.True(t, c.Features().IsDisabled("echo"))

	res = c.Dispatcher().Dispatch(ctx, "10001", "echo hi")
	assert.Equal(t, "功能 'echo' 已被禁用", schema.PlainText(res.Parts))

	// State survives a rebuild from the same data dir.
	c2, err := New(c.Config(), false)
	require.NoError(t, err)
	assert.True(t, c2.Features().IsDisabled("echo"))
	assert.Equal(t, []string{"cli"}, c.Channels().EnabledChannels())
}

func TestPluginSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Skills.WeatherKey = "k"
	cfg.Skills.HTTPTimeoutSeconds = 3
	cfg.Skills.Retries = 0

	s := PluginSettings(&cfg)
	assert.Equal(t, "k", s.WeatherKey)
	assert.Equal(t, 3*time.Second, s.Timeout)
	assert.Equal(t, 3, s.Retries, "non-positive values keep defaults")
	assert.Equal(t, "贵阳", s.DefaultCity)
}
