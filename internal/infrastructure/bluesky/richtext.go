package bluesky

import (
	"strings"
	"unicode/utf8"
)

// TextBuilder accumulates post text together with the rich-text facets that
// annotate it. Facet offsets are byte positions into the UTF-8 text, while
// Len counts characters, which is what the platform's post limit is measured
// in.
type TextBuilder struct {
	text   strings.Builder
	facets []Facet
}

// NewTextBuilder creates an empty builder.
func NewTextBuilder() *TextBuilder {
	return &TextBuilder{}
}

// Text appends plain text.
func (b *TextBuilder) Text(s string) *TextBuilder {
	b.text.WriteString(s)
	return b
}

// Mention appends s annotated as a structured mention of the given DID.
func (b *TextBuilder) Mention(s, did string) *TextBuilder {
	b.feature(s, FacetFeature{Type: FeatureMention, Did: did})
	return b
}

// Tag appends s annotated as a hashtag.
func (b *TextBuilder) Tag(s, tag string) *TextBuilder {
	b.feature(s, FacetFeature{Type: FeatureTag, Tag: tag})
	return b
}

// Link appends s annotated as a hyperlink to uri.
func (b *TextBuilder) Link(s, uri string) *TextBuilder {
	b.feature(s, FacetFeature{Type: FeatureLink, URI: uri})
	return b
}

func (b *TextBuilder) feature(s string, feature FacetFeature) {
	start := b.text.Len()
	b.text.WriteString(s)
	b.facets = append(b.facets, Facet{
		Index:    ByteSlice{ByteStart: start, ByteEnd: b.text.Len()},
		Features: []FacetFeature{feature},
	})
}

// Len returns the accumulated length in characters.
func (b *TextBuilder) Len() int {
	return utf8.RuneCountInString(b.text.String())
}

// Empty reports whether nothing has been appended yet.
func (b *TextBuilder) Empty() bool {
	return b.text.Len() == 0
}

// Record converts the accumulated text and facets into a post record.
func (b *TextBuilder) Record() *Record {
	return &Record{Text: b.text.String(), Facets: b.facets}
}
