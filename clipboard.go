package plopper

import "strings"

// ClipboardPart is one structured payload offered by the clipboard,
// labelled with its two-part MIME type (e.g. text/html, image/png).
// Data arrives base64-encoded on the wire.
type ClipboardPart struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// ClipboardSnapshot is the raw clipboard read captured at paste time, as
// posted by the client. Denied marks a platform permission denial: the
// client could not read the clipboard at all.
type ClipboardSnapshot struct {
	Denied bool            `json:"denied,omitempty"`
	Text   string          `json:"text,omitempty"`
	Parts  []ClipboardPart `json:"parts,omitempty"`
}

// MainType returns the part's MIME main type ("text" of "text/html").
func (p ClipboardPart) MainType() string {
	main, _ := splitMIME(p.Type)
	return main
}

// SubType returns the part's MIME sub type ("html" of "text/html").
func (p ClipboardPart) SubType() string {
	_, sub := splitMIME(p.Type)
	return sub
}

func splitMIME(t string) (string, string) {
	main, sub, ok := strings.Cut(t, "/")
	if !ok {
		return t, ""
	}
	// strip parameters like "; charset=utf-8"
	if i := strings.IndexByte(sub, ';'); i >= 0 {
		sub = sub[:i]
	}
	return strings.TrimSpace(strings.ToLower(main)), strings.TrimSpace(strings.ToLower(sub))
}
