package content

import (
	"path"
	"strings"
)

// FileKind drives how an attachment is previewed.
type FileKind string

const (
	FileKindNone     FileKind = ""
	FileKindImage    FileKind = "image"
	FileKindVideo    FileKind = "video"
	FileKindPDF      FileKind = "pdf"
	FileKindDocument FileKind = "document"
	FileKindOther    FileKind = "other"
)

var fileKinds = map[string]FileKind{
	".jpg": FileKindImage, ".jpeg": FileKindImage, ".png": FileKindImage,
	".gif": FileKindImage, ".webp": FileKindImage, ".svg": FileKindImage,
	".mp4": FileKindVideo, ".webm": FileKindVideo, ".mov": FileKindVideo, ".ogg": FileKindVideo,
	".pdf": FileKindPDF,
	".doc": FileKindDocument, ".docx": FileKindDocument, ".ppt": FileKindDocument,
	".pptx": FileKindDocument, ".xls": FileKindDocument, ".xlsx": FileKindDocument,
	".txt": FileKindDocument,
}

// HasFile reports whether link points at a real attachment.
func HasFile(link string) bool {
	link = strings.TrimSpace(link)
	return link != "" && link != NoFile && !strings.Contains(link, "placeholder")
}

// KindOf classifies link by its extension, ignoring any query or fragment.
func KindOf(link string) FileKind {
	if !HasFile(link) {
		return FileKindNone
	}
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	if kind, ok := fileKinds[strings.ToLower(path.Ext(link))]; ok {
		return kind
	}
	return FileKindOther
}

// FileName is the last path element of link.
func FileName(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	name := path.Base(link)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// ResolveFileURL turns a stored file link into a browser URL. Absolute
// http(s) links are returned as is; relative ones are joined to baseURL.
func ResolveFileURL(baseURL, link string) string {
	link = strings.TrimSpace(link)
	if !HasFile(link) {
		return ""
	}
	lowered := strings.ToLower(link)
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return strings.TrimRight(baseURL, "/") + link
}
