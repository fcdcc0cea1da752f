package bluesky

// Wire types for the subset of the Bluesky XRPC lexicon the bot touches.

// Session is the result of com.atproto.server.createSession.
type Session struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Did        string `json:"did"`
	Handle     string `json:"handle"`
}

// Actor identifies the author of a post or notification.
type Actor struct {
	Did    string `json:"did"`
	Handle string `json:"handle"`
}

// Notification is one entry of app.bsky.notification.listNotifications.
type Notification struct {
	URI       string `json:"uri"`
	CID       string `json:"cid"`
	Author    Actor  `json:"author"`
	Reason    string `json:"reason"`
	IndexedAt string `json:"indexedAt"`
}

// StrongRef points at a specific post revision; a reply carries two of them.
type StrongRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// ReplyRef threads a post onto its parent and the thread root.
type ReplyRef struct {
	Root   StrongRef `json:"root"`
	Parent StrongRef `json:"parent"`
}

// ByteSlice addresses a byte range [ByteStart, ByteEnd) of a post's text.
type ByteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// FacetFeature is the tagged payload of a rich-text facet. Exactly one of
// Did, Tag and URI is set, selected by Type.
type FacetFeature struct {
	Type string `json:"$type"`
	Did  string `json:"did,omitempty"`
	Tag  string `json:"tag,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// Facet annotates a byte range of post text as a mention, tag or link.
type Facet struct {
	Index    ByteSlice      `json:"index"`
	Features []FacetFeature `json:"features"`
}

const (
	FeatureMention = "app.bsky.richtext.facet#mention"
	FeatureTag     = "app.bsky.richtext.facet#tag"
	FeatureLink    = "app.bsky.richtext.facet#link"
)

// Blob is an uploaded binary reference as returned by uploadBlob.
type Blob struct {
	Type     string  `json:"$type"`
	Ref      BlobRef `json:"ref"`
	MimeType string  `json:"mimeType"`
	Size     int64   `json:"size"`
}

// BlobRef carries the content id of a blob.
type BlobRef struct {
	Link string `json:"$link"`
}

// ImageEmbed is one image of an app.bsky.embed.images embed.
type ImageEmbed struct {
	Alt   string `json:"alt"`
	Image Blob   `json:"image"`
}

// ExternalEmbed is the link card of an app.bsky.embed.external embed.
type ExternalEmbed struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EmbedKind discriminates the embed variant carried by a post record. The
// kind is decided once when the record is read; nothing downstream re-probes
// the raw shape.
type EmbedKind int

const (
	EmbedNone EmbedKind = iota
	EmbedImages
	EmbedExternal
)

const (
	embedImagesType   = "app.bsky.embed.images"
	embedExternalType = "app.bsky.embed.external"
)

// Embed is the tagged embed variant of a post record.
type Embed struct {
	Type     string         `json:"$type"`
	Images   []ImageEmbed   `json:"images,omitempty"`
	External *ExternalEmbed `json:"external,omitempty"`
}

// NewImagesEmbed wraps uploaded images as an app.bsky.embed.images embed.
func NewImagesEmbed(images []ImageEmbed) *Embed {
	return &Embed{Type: embedImagesType, Images: images}
}

// NewExternalEmbed wraps a link card as an app.bsky.embed.external embed.
func NewExternalEmbed(external ExternalEmbed) *Embed {
	return &Embed{Type: embedExternalType, External: &external}
}

// Kind returns the resolved embed variant.
func (e *Embed) Kind() EmbedKind {
	switch {
	case e == nil:
		return EmbedNone
	case e.Type == embedImagesType && len(e.Images) > 0:
		return EmbedImages
	case e.Type == embedExternalType && e.External != nil:
		return EmbedExternal
	default:
		return EmbedNone
	}
}

// Record is the app.bsky.feed.post record of a post.
type Record struct {
	Type      string    `json:"$type,omitempty"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Reply     *ReplyRef `json:"reply,omitempty"`
	Facets    []Facet   `json:"facets,omitempty"`
	Embed     *Embed    `json:"embed,omitempty"`
}

// Post is a hydrated post view as returned by app.bsky.feed.getPosts.
type Post struct {
	URI    string `json:"uri"`
	CID    string `json:"cid"`
	Author Actor  `json:"author"`
	Record Record `json:"record"`
}

// Ref returns the strong ref of the post, used to thread replies onto it.
func (p *Post) Ref() StrongRef {
	return StrongRef{URI: p.URI, CID: p.CID}
}

// Profile is the subset of app.bsky.actor.getProfile the bot needs.
type Profile struct {
	Did    string `json:"did"`
	Handle string `json:"handle"`
}
