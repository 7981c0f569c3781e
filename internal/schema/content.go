package schema

import "strings"

// PartKind tags the variant held by a ContentPart.
type PartKind int

const (
	PartText PartKind = iota
	PartRemoteImage
	PartLocalImage
	PartMention
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartRemoteImage:
		return "remote_image"
	case PartLocalImage:
		return "local_image"
	case PartMention:
		return "mention"
	}
	return "unknown"
}

// ContentPart is one typed unit of an outbound reply.
// Only the fields that belong to Kind are set.
type ContentPart struct {
	Kind   PartKind
	Text   string // PartText
	URL    string // PartRemoteImage
	Path   string // PartLocalImage: source path
	Data   []byte // PartLocalImage: file contents
	UserID string // PartMention
}

func TextPart(s string) ContentPart          { return ContentPart{Kind: PartText, Text: s} }
func RemoteImagePart(url string) ContentPart { return ContentPart{Kind: PartRemoteImage, URL: url} }
func MentionPart(userID string) ContentPart  { return ContentPart{Kind: PartMention, UserID: userID} }
func LocalImagePart(path string, data []byte) ContentPart {
	return ContentPart{Kind: PartLocalImage, Path: path, Data: data}
}

// PlainText joins the text parts of a reply, rendering the other kinds as
// short placeholders. It is used by text-only sinks such as the terminal.
func PlainText(parts []ContentPart) string {
	var sb strings.Builder
	for _, p := range parts {
		switch p.Kind {
		case PartText:
			sb.WriteString(p.Text)
		case PartRemoteImage:
			sb.WriteString("[image: " + p.URL + "]")
		case PartLocalImage:
			sb.WriteString("[image: " + p.Path + "]")
		case PartMention:
			sb.WriteString("@" + p.UserID + " ")
		}
	}
	return sb.String()
}
