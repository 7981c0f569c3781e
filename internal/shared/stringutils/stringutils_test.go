package stringutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "天气...", Truncate("天气预报", 2))
}

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "x", StringOrDefault("x", "y"))
	assert.Equal(t, "y", StringOrDefault("", "y"))
}
