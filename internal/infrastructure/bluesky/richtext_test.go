package bluesky

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextBuilderFacetOffsets(t *testing.T) {
	b := NewTextBuilder()
	b.Text("Hi! ")
	b.Mention("@alice.example", "did:plc:alice")
	b.Text(" look at ")
	b.Link("this", "https://example.com")

	record := b.Record()
	assert.Equal(t, "Hi! @alice.example look at this", record.Text)
	require.Len(t, record.Facets, 2)

	mention := record.Facets[0]
	assert.Equal(t, 4, mention.Index.ByteStart)
	assert.Equal(t, 18, mention.Index.ByteEnd)
	assert.Equal(t, "@alice.example", record.Text[mention.Index.ByteStart:mention.Index.ByteEnd])
	require.Len(t, mention.Features, 1)
	assert.Equal(t, FeatureMention, mention.Features[0].Type)
	assert.Equal(t, "did:plc:alice", mention.Features[0].Did)

	link := record.Facets[1]
	assert.Equal(t, "this", record.Text[link.Index.ByteStart:link.Index.ByteEnd])
	assert.Equal(t, FeatureLink, link.Features[0].Type)
	assert.Equal(t, "https://example.com", link.Features[0].URI)
}

func TestTextBuilderByteOffsetsWithMultibyteText(t *testing.T) {
	b := NewTextBuilder()
	b.Text("héllo ") // 7 bytes, 6 characters
	b.Tag("#reminder", "reminder")

	record := b.Record()
	require.Len(t, record.Facets, 1)
	assert.Equal(t, 7, record.Facets[0].Index.ByteStart)
	assert.Equal(t, "#reminder", record.Text[record.Facets[0].Index.ByteStart:record.Facets[0].Index.ByteEnd])
	assert.Equal(t, 15, b.Len())
}

func TestEmbedKind(t *testing.T) {
	var none *Embed
	assert.Equal(t, EmbedNone, none.Kind())
	assert.Equal(t, EmbedNone, (&Embed{Type: "app.bsky.embed.record"}).Kind())

	images := &Embed{Type: "app.bsky.embed.images", Images: []ImageEmbed{{Alt: "a cat"}}}
	assert.Equal(t, EmbedImages, images.Kind())

	external := &Embed{Type: "app.bsky.embed.external", External: &ExternalEmbed{URI: "https://tenor.com/x.gif"}}
	assert.Equal(t, EmbedExternal, external.Kind())
}
