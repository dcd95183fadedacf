package plopper

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentKind discriminates the arms of PastedContent.
type ContentKind string

const (
	KindText   ContentKind = "text"
	KindImage  ContentKind = "image"
	KindURL    ContentKind = "url"
	KindPlayer ContentKind = "player"
)

// TextContent carries the textual forms offered by the clipboard.
// HTML is present only when a rich-text payload was available.
type TextContent struct {
	Plain string `json:"plain"`
	HTML  string `json:"html,omitempty"`
}

// PageMeta is Open Graph style metadata scraped for a generic link.
// Every field is optional; an empty struct is a valid value.
type PageMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// PastedContent is the classified form of one clipboard read. Exactly one
// arm is active, selected by Kind. Values should be built through the
// NewText/NewImage/NewURL/NewPlayer constructors; DecodeContent is the only
// place wire JSON is turned into a PastedContent, and it validates shape so
// downstream code never re-inspects raw fields.
type PastedContent struct {
	Kind ContentKind  `json:"type"`
	Text *TextContent `json:"text,omitempty"`
	Src  string       `json:"src,omitempty"`
	URL  string       `json:"url,omitempty"`
	Meta *PageMeta    `json:"meta,omitempty"`
}

func NewText(plain, html string) PastedContent {
	return PastedContent{Kind: KindText, Text: &TextContent{Plain: plain, HTML: html}}
}

func NewImage(src string) PastedContent {
	return PastedContent{Kind: KindImage, Src: src}
}

func NewURL(url string, meta PageMeta) PastedContent {
	return PastedContent{Kind: KindURL, URL: url, Meta: &meta}
}

func NewPlayer(url string) PastedContent {
	return PastedContent{Kind: KindPlayer, URL: url}
}

// Validate checks that exactly the fields of the active arm are populated.
func (p PastedContent) Validate() error {
	switch p.Kind {
	case KindText:
		if p.Text == nil {
			return fmt.Errorf("text content requires a text payload")
		}
		if p.Src != "" || p.URL != "" || p.Meta != nil {
			return fmt.Errorf("text content carries foreign fields")
		}
	case KindImage:
		if p.Src == "" {
			return fmt.Errorf("image content requires src")
		}
		if p.Text != nil || p.URL != "" || p.Meta != nil {
			return fmt.Errorf("image content carries foreign fields")
		}
	case KindURL:
		if p.URL == "" {
			return fmt.Errorf("url content requires url")
		}
		if p.Text != nil || p.Src != "" {
			return fmt.Errorf("url content carries foreign fields")
		}
	case KindPlayer:
		if p.URL == "" {
			return fmt.Errorf("player content requires url")
		}
		if p.Text != nil || p.Src != "" || p.Meta != nil {
			return fmt.Errorf("player content carries foreign fields")
		}
	default:
		return fmt.Errorf("unknown content kind %q", p.Kind)
	}
	return nil
}

// DecodeContent parses and validates a wire-format PastedContent.
func DecodeContent(raw []byte) (PastedContent, error) {
	var p PastedContent
	if err := json.Unmarshal(raw, &p); err != nil {
		return PastedContent{}, err
	}
	if err := p.Validate(); err != nil {
		return PastedContent{}, err
	}
	return p, nil
}

// Item is one pasted, classified piece of content owned by a single user.
// The ID is assigned by the store at creation time. Items are never mutated
// after creation; they are only created and removed.
type Item struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"ownerId"`
	Data      PastedContent `json:"data"`
	CreatedAt time.Time     `json:"createdAt"`
}

const (
	EventItemCreated = "item.created"
	EventItemRemoved = "item.removed"
)

// Event is the realtime notification pushed to live board sessions.
type Event struct {
	Type    string `json:"type"`
	OwnerID string `json:"ownerId"`
	Item    Item   `json:"item"`
}
