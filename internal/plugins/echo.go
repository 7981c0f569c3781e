package plugins

import (
	"context"
	"strings"

	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/skills"
)

// Echo repeats its arguments. It uses the positional-arguments convention.
func Echo() skills.Factory {
	return skills.Static(schema.NewArgsSkill(schema.Descriptor{
		Keyword:     "echo",
		Description: "回显用户输入的内容",
		Usage:       "echo <内容>",
	}, func(_ context.Context, args []string) (string, error) {
		if len(args) == 0 {
			return "请在echo后面输入要回显的内容", nil
		}
		return strings.Join(args, " "), nil
	}))
}
