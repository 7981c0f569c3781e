package cmdutils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/skillbox/skillbox/internal/schema"
)

const logo = "🧰"

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	imageColor   = color.New(color.FgMagenta)
	mentionColor = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
)

// PrintParts writes a reply to stdout. Nothing is printed for an empty reply.
func PrintParts(parts []schema.ContentPart) {
	FprintParts(os.Stdout, parts)
}

// FprintParts renders reply parts for a terminal: text verbatim, images and
// mentions as coloured placeholders.
func FprintParts(w io.Writer, parts []schema.ContentPart) {
	if len(parts) == 0 {
		return
	}

	fmt.Fprintln(w)
	headerColor.Fprintf(w, "%s skillbox\n", logo)
	for _, p := range parts {
		switch p.Kind {
		case schema.PartText:
			fmt.Fprint(w, p.Text)
		case schema.PartRemoteImage:
			imageColor.Fprintf(w, "[image %s]", p.URL)
		case schema.PartLocalImage:
			imageColor.Fprintf(w, "[image %s, %d bytes]", p.Path, len(p.Data))
		case schema.PartMention:
			mentionColor.Fprintf(w, "@%s ", p.UserID)
		}
	}
	fmt.Fprint(w, "\n\n")
}

// PrintError writes a failure line to stderr.
func PrintError(format string, args ...any) {
	failColor.Fprintf(os.Stderr, format+"\n", args...)
}
