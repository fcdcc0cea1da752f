package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"remindbot/internal/infrastructure/bluesky"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mentionURI = "at://did:plc:requester/app.bsky.feed.post/abc"
	parentURI  = "at://did:plc:author/app.bsky.feed.post/xyz"
)

var requesterActor = bluesky.Actor{Did: "did:plc:requester", Handle: "requester.example"}

// seedMention installs a parent post and a mention post replying to it, plus
// the matching notification. Returns the creation time of the mention post.
func seedMention(env *serviceEnv, text string, createdAt time.Time) time.Time {
	created := createdAt.UTC().Truncate(time.Second)
	env.client.posts[parentURI] = &bluesky.Post{
		URI:    parentURI,
		CID:    "bafy-parent",
		Author: bluesky.Actor{Did: "did:plc:author", Handle: "author.example"},
		Record: bluesky.Record{
			Text:      "the original post",
			CreatedAt: created.Add(-time.Minute).Format(time.RFC3339),
		},
	}
	env.client.posts[mentionURI] = &bluesky.Post{
		URI:    mentionURI,
		CID:    "bafy-mention",
		Author: requesterActor,
		Record: bluesky.Record{
			Text:      text,
			CreatedAt: created.Format(time.RFC3339),
			Reply: &bluesky.ReplyRef{
				Root:   bluesky.StrongRef{URI: parentURI, CID: "bafy-parent"},
				Parent: bluesky.StrongRef{URI: parentURI, CID: "bafy-parent"},
			},
		},
	}
	env.client.notifications = []bluesky.Notification{{
		URI:    mentionURI,
		CID:    "bafy-notification-1",
		Author: requesterActor,
		Reason: "mention",
	}}
	return created
}

func lastReply(t *testing.T, env *serviceEnv) *bluesky.Record {
	t.Helper()
	require.NotEmpty(t, env.client.sent)
	return env.client.sent[len(env.client.sent)-1]
}

func TestIngestStoresReminderFromMention(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	sent := seedMention(env, "@bot.example remind me in 2 hours every 20 minutes", time.Now().UTC())
	mention := env.client.posts[mentionURI]
	mention.Record.Facets = []bluesky.Facet{
		{Features: []bluesky.FacetFeature{{Type: bluesky.FeatureMention, Did: "did:plc:bot"}}},
		{Features: []bluesky.FacetFeature{{Type: bluesky.FeatureMention, Did: "did:plc:carol"}}},
	}
	env.client.profiles["did:plc:carol"] = "carol.example"

	require.NoError(t, env.ingestService().PollOnce(ctx))

	all, err := env.reminders.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	reminder := all[0]
	assert.Equal(t, "the original post", reminder.Text)
	assert.Equal(t, 1200, reminder.RepeatSeconds)
	assert.True(t, reminder.DueAt.Equal(sent.Add(2*time.Hour).Truncate(time.Minute)))
	assert.True(t, reminder.RequestedAt.Equal(sent))

	handles, err := env.reminders.MentionHandles(ctx, reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol.example"}, handles, "the bot's own mention is not a target")

	reply := lastReply(t, env)
	assert.True(t, strings.HasPrefix(reply.Text, "I will remind you this on "))
	require.NotNil(t, reply.Reply)
	assert.Equal(t, mentionURI, reply.Reply.Parent.URI)

	// The notification is marked seen, so a second cycle is a no-op.
	posted := len(env.client.sent)
	require.NoError(t, env.ingestService().PollOnce(ctx))
	assert.Len(t, env.client.sent, posted)
}

func TestIngestCopiesParentMediaAndSpans(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 day", time.Now().UTC())
	parent := env.client.posts[parentURI]
	parent.Record.Embed = bluesky.NewImagesEmbed([]bluesky.ImageEmbed{
		{Alt: "first", Image: bluesky.Blob{Ref: bluesky.BlobRef{Link: "bafy-img-1"}}},
		{Alt: "second", Image: bluesky.Blob{Ref: bluesky.BlobRef{Link: "bafy-img-2"}}},
	})
	parent.Record.Facets = []bluesky.Facet{
		{
			Index:    bluesky.ByteSlice{ByteStart: 0, ByteEnd: 3},
			Features: []bluesky.FacetFeature{{Type: bluesky.FeatureTag, Tag: "news"}},
		},
	}
	env.client.images["bafy-img-1"] = []byte("image one")
	// bafy-img-2 is missing from the CDN on purpose.

	require.NoError(t, env.ingestService().PollOnce(ctx))

	all, err := env.reminders.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	attachments, err := env.media.ByReminderID(ctx, all[0].ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1, "a failed download skips that image only")
	assert.Equal(t, "first", attachments[0].Alt)
	data, err := env.files.Read(attachments[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image one"), data)

	spans, err := env.spans.ByReminderID(ctx, all[0].ID)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "tag", spans[0].Kind)
	assert.Equal(t, "news", spans[0].Target)
}

func TestIngestRejectsPastDueDate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 minute", time.Now().UTC().Add(-2*time.Hour))

	require.NoError(t, env.ingestService().PollOnce(ctx))

	count, err := env.reminders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, msgDueInPast, lastReply(t, env).Text)
}

func TestIngestRequiresMentionToBeAReply(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 day", time.Now().UTC())
	env.client.posts[mentionURI].Record.Reply = nil

	require.NoError(t, env.ingestService().PollOnce(ctx))

	count, err := env.reminders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, msgNotAReply, lastReply(t, env).Text)
}

func TestIngestRetriesAfterReauthentication(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 day", time.Now().UTC())
	env.client.listErr = errors.New("expired token")

	require.NoError(t, env.ingestService().PollOnce(ctx))

	assert.Equal(t, 1, env.client.loginCalls)
	count, err := env.reminders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIngestSkipsSelfMentions(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 day", time.Now().UTC())
	env.client.notifications[0].Author = bluesky.Actor{Did: env.client.did, Handle: env.client.handle}

	require.NoError(t, env.ingestService().PollOnce(ctx))

	count, err := env.reminders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, env.client.sent)
}

func TestIngestDeleteCommand(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	seedMention(env, "@bot.example remind me in 1 day", time.Now().UTC())
	require.NoError(t, env.ingestService().PollOnce(ctx))
	count, err := env.reminders.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// The user replies "delete" to their own instruction post.
	deleteURI := "at://did:plc:requester/app.bsky.feed.post/del"
	env.client.posts[deleteURI] = &bluesky.Post{
		URI:    deleteURI,
		CID:    "bafy-delete",
		Author: requesterActor,
		Record: bluesky.Record{
			Text:      "@bot.example please delete this",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Reply: &bluesky.ReplyRef{
				Root:   bluesky.StrongRef{URI: parentURI, CID: "bafy-parent"},
				Parent: bluesky.StrongRef{URI: mentionURI, CID: "bafy-mention"},
			},
		},
	}
	env.client.notifications = []bluesky.Notification{{
		URI:    deleteURI,
		CID:    "bafy-notification-2",
		Author: requesterActor,
		Reason: "mention",
	}}

	require.NoError(t, env.ingestService().PollOnce(ctx))

	count, err = env.reminders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, msgDeleted, lastReply(t, env).Text)
}

func TestIngestDeleteOnUnknownParent(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	// The parent is a regular post that never addressed the bot.
	seedMention(env, "@bot.example delete", time.Now().UTC())

	require.NoError(t, env.ingestService().PollOnce(ctx))

	assert.Equal(t, msgDeleteUnknown, lastReply(t, env).Text)
}
