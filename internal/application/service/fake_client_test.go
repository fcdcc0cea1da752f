package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"remindbot/internal/infrastructure/bluesky"
)

// fakeClient is an in-memory stand-in for the Bluesky API. Posts sent through
// it are recorded in order so tests can assert on thread structure.
type fakeClient struct {
	handle        string
	did           string
	notifications []bluesky.Notification
	posts         map[string]*bluesky.Post
	profiles      map[string]string // did -> handle
	resolvable    map[string]string // handle -> did
	images        map[string][]byte // image cid -> bytes
	sent          []*bluesky.Record
	listErr       error
	loginCalls    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		handle:     "bot.example",
		did:        "did:plc:bot",
		posts:      map[string]*bluesky.Post{},
		profiles:   map[string]string{},
		resolvable: map[string]string{},
		images:     map[string][]byte{},
	}
}

func (f *fakeClient) Login(ctx context.Context) error {
	f.loginCalls++
	return nil
}

func (f *fakeClient) Handle() string { return f.handle }

func (f *fakeClient) Did() string { return f.did }

func (f *fakeClient) ListNotifications(ctx context.Context) ([]bluesky.Notification, error) {
	if f.listErr != nil {
		err := f.listErr
		f.listErr = nil
		return nil, err
	}
	return f.notifications, nil
}

func (f *fakeClient) UpdateSeen(ctx context.Context, seenAt time.Time) error { return nil }

func (f *fakeClient) GetPost(ctx context.Context, uri string) (*bluesky.Post, error) {
	post, ok := f.posts[uri]
	if !ok {
		return nil, fmt.Errorf("post %s not found", uri)
	}
	return post, nil
}

func (f *fakeClient) ResolveHandle(ctx context.Context, handle string) (string, error) {
	did, ok := f.resolvable[handle]
	if !ok {
		return "", fmt.Errorf("handle %s does not resolve", handle)
	}
	return did, nil
}

func (f *fakeClient) GetProfile(ctx context.Context, actor string) (*bluesky.Profile, error) {
	handle, ok := f.profiles[actor]
	if !ok {
		return nil, fmt.Errorf("profile %s not found", actor)
	}
	return &bluesky.Profile{Did: actor, Handle: handle}, nil
}

func (f *fakeClient) SendPost(ctx context.Context, record *bluesky.Record) (*bluesky.StrongRef, error) {
	copied := *record
	f.sent = append(f.sent, &copied)
	n := len(f.sent)
	return &bluesky.StrongRef{
		URI: fmt.Sprintf("at://did:plc:bot/app.bsky.feed.post/%d", n),
		CID: fmt.Sprintf("bafy-sent-%d", n),
	}, nil
}

func (f *fakeClient) UploadBlob(ctx context.Context, data []byte, mimeType string) (*bluesky.Blob, error) {
	return &bluesky.Blob{
		Type:     "blob",
		Ref:      bluesky.BlobRef{Link: fmt.Sprintf("bafy-blob-%d", len(data))},
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

func (f *fakeClient) DownloadImage(ctx context.Context, did, cid string) (io.ReadCloser, error) {
	data, ok := f.images[cid]
	if !ok {
		return nil, fmt.Errorf("image %s not found", cid)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ bluesky.API = (*fakeClient)(nil)
