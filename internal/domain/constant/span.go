package constant

// SpanKind defines the possible kinds of a rich-text span.
type SpanKind string

const (
	// SpanMention marks a byte range that resolves to a person (target is a DID).
	SpanMention SpanKind = "mention"
	// SpanTag marks a hashtag (target is the tag string without '#').
	SpanTag SpanKind = "tag"
	// SpanLink marks an embedded hyperlink (target is the URI).
	SpanLink SpanKind = "link"
)

func (k SpanKind) String() string {
	return string(k)
}
