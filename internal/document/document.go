// Package document defines the normalized document model consumed by the
// redaction engine. Parsing of source formats (PDF, DOCX, images) happens
// upstream; by the time a Document reaches this package its content has been
// extracted into one of the content variants below.
package document

import "strings"

// Document is a parsed input document. The engine treats it as read-only.
type Document struct {
	ID       string   `json:"id"`
	Metadata Metadata `json:"metadata"`
	Content  Content  `json:"content"`
}

// Metadata carries the identifying attributes of the source file.
type Metadata struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Content is the tagged content variant. Exactly one concrete type implements
// each document shape; the engine dispatches on the concrete type, never on
// raw field presence.
type Content interface {
	contentShape() Shape
}

// Shape classifies how a document can be redacted.
type Shape int

const (
	// ShapeText is a single block of extracted text.
	ShapeText Shape = iota
	// ShapePaged is per-page extracted text.
	ShapePaged
	// ShapeBinary is content the engine cannot rewrite in-process; it must be
	// delegated to an external processing engine.
	ShapeBinary
)

// Text is extracted plain text, redacted as one unit.
type Text struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

// Paged is per-page extracted text; each page is redacted independently.
type Paged struct {
	Pages    []Page            `json:"pages"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Page is one page of extracted text.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// Binary is raw content for shapes the engine cannot rewrite directly, such as
// scanned images. Format names the source encoding.
type Binary struct {
	Data   []byte `json:"data"`
	Format string `json:"format"`
}

func (Text) contentShape() Shape   { return ShapeText }
func (Paged) contentShape() Shape  { return ShapePaged }
func (Binary) contentShape() Shape { return ShapeBinary }

// NewText builds a Text content block, deriving lines from the text.
func NewText(text string) Text {
	return Text{Text: text, Lines: strings.Split(text, "\n")}
}

// Shape class per extension, mirroring the upstream parser's processor
// selection. Extensions are stored lowercase without the leading dot.
var extensionShapes = map[string]Shape{
	"txt":  ShapeText,
	"md":   ShapeText,
	"csv":  ShapeText,
	"log":  ShapeText,
	"json": ShapeText,
	"xml":  ShapeText,
	"html": ShapeText,
	"htm":  ShapeText,

	"pdf":  ShapePaged,
	"docx": ShapePaged,
	"doc":  ShapePaged,
	"xlsx": ShapePaged,
	"xls":  ShapePaged,
	"pptx": ShapePaged,

	"png":  ShapeBinary,
	"jpg":  ShapeBinary,
	"jpeg": ShapeBinary,
	"bmp":  ShapeBinary,
	"tiff": ShapeBinary,
	"gif":  ShapeBinary,
}

// ShapeForExtension reports the shape class for a file extension, and whether
// the extension is recognized at all. The extension may be given with or
// without a leading dot, in any case.
func ShapeForExtension(ext string) (Shape, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	shape, ok := extensionShapes[ext]
	return shape, ok
}
