package richtext

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var previewPolicy = bluemonday.UGCPolicy()

// PreviewHTML renders a stored block list to sanitized HTML for read-only
// previews in the admin chrome. MediaURL resolves a media id to a servable
// URL; when nil, upload blocks render a placeholder figure.
func PreviewHTML(blocks []Block, mediaURL func(id any) string) string {
	var builder strings.Builder
	for _, block := range blocks {
		switch block.Type {
		case BlockParagraph, "":
			writeParagraphHTML(&builder, block)
		case BlockUpload:
			writeUploadHTML(&builder, block, mediaURL)
		}
	}
	return previewPolicy.Sanitize(builder.String())
}

func writeParagraphHTML(builder *strings.Builder, block Block) {
	builder.WriteString("<p>")
	for _, leaf := range block.Children {
		text := html.EscapeString(leaf.Text)
		if leaf.Code {
			text = "<code>" + text + "</code>"
		}
		if leaf.Strikethrough {
			text = "<del>" + text + "</del>"
		}
		if leaf.Underline {
			text = "<u>" + text + "</u>"
		}
		if leaf.Italic {
			text = "<em>" + text + "</em>"
		}
		if leaf.Bold {
			text = "<strong>" + text + "</strong>"
		}
		builder.WriteString(text)
	}
	builder.WriteString("</p>\n")
}

func writeUploadHTML(builder *strings.Builder, block Block, mediaURL func(id any) string) {
	if block.Value == nil || block.Value.ID == nil {
		return
	}
	if mediaURL == nil {
		fmt.Fprintf(builder, "<figure data-media-id=%q></figure>\n",
			html.EscapeString(fmt.Sprint(block.Value.ID)))
		return
	}
	fmt.Fprintf(builder, "<figure><img src=%q alt=\"\"></figure>\n",
		html.EscapeString(mediaURL(block.Value.ID)))
}
