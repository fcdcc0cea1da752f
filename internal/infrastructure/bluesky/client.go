package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"sync"
	"time"
)

const cdnImageURL = "https://cdn.bsky.app/img/feed_fullsize/plain/"

// API is the surface of the Bluesky client the services depend on. It exists
// so the pollers can be exercised against a fake in tests.
type API interface {
	Login(ctx context.Context) error
	Handle() string
	Did() string
	ListNotifications(ctx context.Context) ([]Notification, error)
	UpdateSeen(ctx context.Context, seenAt time.Time) error
	GetPost(ctx context.Context, uri string) (*Post, error)
	ResolveHandle(ctx context.Context, handle string) (string, error)
	GetProfile(ctx context.Context, actor string) (*Profile, error)
	SendPost(ctx context.Context, record *Record) (*StrongRef, error)
	UploadBlob(ctx context.Context, data []byte, mimeType string) (*Blob, error)
	DownloadImage(ctx context.Context, did, cid string) (io.ReadCloser, error)
}

// Client talks XRPC to a Bluesky PDS. One long-lived instance is shared by
// both pollers; the session token is guarded because either poller may
// re-login after an auth failure.
type Client struct {
	host       string
	identifier string
	password   string
	httpClient *http.Client
	log        logger.Logger

	mu      sync.RWMutex
	session Session
}

// NewClient creates a Bluesky client for the given PDS host and credentials.
// The caller must Login before issuing requests.
func NewClient(host, identifier, password string, log logger.Logger) *Client {
	return &Client{
		host:       host,
		identifier: identifier,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Login creates a fresh session with the PDS, replacing any existing one.
func (c *Client) Login(ctx context.Context) error {
	body := map[string]string{"identifier": c.identifier, "password": c.password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "com.atproto.server.createSession", nil, body, &session, false); err != nil {
		return err
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.log.Info(fmt.Sprintf("Logged in to %s as %s", c.host, session.Handle))
	return nil
}

// Handle returns the bot's own handle as confirmed by the session.
func (c *Client) Handle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Handle
}

// Did returns the bot's own DID as confirmed by the session.
func (c *Client) Did() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Did
}

// ListNotifications returns the current notification page for the session
// account.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "app.bsky.notification.listNotifications", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// UpdateSeen advances the server-side notification cursor.
func (c *Client) UpdateSeen(ctx context.Context, seenAt time.Time) error {
	body := map[string]string{"seenAt": seenAt.UTC().Format(time.RFC3339)}
	return c.do(ctx, http.MethodPost, "app.bsky.notification.updateSeen", nil, body, nil, true)
}

// GetPost fetches the hydrated view of a single post by AT-URI.
func (c *Client) GetPost(ctx context.Context, uri string) (*Post, error) {
	query := url.Values{"uris": []string{uri}}
	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "app.bsky.feed.getPosts", query, nil, &out, true); err != nil {
		return nil, err
	}
	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("%w: post %s not found", appErrors.ErrBlueskyAPI, uri)
	}
	return &out.Posts[0], nil
}

// ResolveHandle resolves a handle to its DID.
func (c *Client) ResolveHandle(ctx context.Context, handle string) (string, error) {
	query := url.Values{"handle": []string{handle}}
	var out struct {
		Did string `json:"did"`
	}
	if err := c.do(ctx, http.MethodGet, "com.atproto.identity.resolveHandle", query, nil, &out, true); err != nil {
		return "", err
	}
	return out.Did, nil
}

// GetProfile fetches the profile of an actor (handle or DID).
func (c *Client) GetProfile(ctx context.Context, actor string) (*Profile, error) {
	query := url.Values{"actor": []string{actor}}
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "app.bsky.actor.getProfile", query, nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SendPost creates an app.bsky.feed.post record in the bot's own repo and
// returns its strong ref for threading.
func (c *Client) SendPost(ctx context.Context, record *Record) (*StrongRef, error) {
	record.Type = "app.bsky.feed.post"
	if record.CreatedAt == "" {
		record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	body := map[string]interface{}{
		"repo":       c.Did(),
		"collection": "app.bsky.feed.post",
		"record":     record,
	}
	var ref StrongRef
	if err := c.do(ctx, http.MethodPost, "com.atproto.repo.createRecord", nil, body, &ref, true); err != nil {
		return nil, err
	}
	c.log.Debug(fmt.Sprintf("Posted %s", ref.URI))
	return &ref, nil
}

// UploadBlob uploads raw bytes and returns the blob reference to embed.
func (c *Client) UploadBlob(ctx context.Context, data []byte, mimeType string) (*Blob, error) {
	endpoint := c.host + "/xrpc/com.atproto.repo.uploadBlob"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Authorization", "Bearer "+c.accessJwt())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("com.atproto.repo.uploadBlob", resp)
	}

	var out struct {
		Blob Blob `json:"blob"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding uploadBlob response: %v", appErrors.ErrBlueskyAPI, err)
	}
	return &out.Blob, nil
}

// DownloadImage streams a full-size image of the given author from the CDN.
// The caller owns the returned reader.
func (c *Client) DownloadImage(ctx context.Context, did, cid string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cdnImageURL+did+"/"+cid, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrMediaFetch, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrMediaFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: cdn returned status %d for %s", appErrors.ErrMediaFetch, resp.StatusCode, cid)
	}
	return resp.Body, nil
}

func (c *Client) accessJwt() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.AccessJwt
}

// do performs one XRPC call. Query parameters apply to GETs, body is JSON
// encoded for POSTs, out (when non-nil) receives the decoded response.
func (c *Client) do(ctx context.Context, method, nsid string, query url.Values, body, out interface{}, authed bool) error {
	endpoint := c.host + "/xrpc/" + nsid
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding %s request: %v", appErrors.ErrBlueskyAPI, nsid, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.accessJwt())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", appErrors.ErrBlueskyAPI, nsid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(nsid, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", appErrors.ErrBlueskyAPI, nsid, err)
	}
	return nil
}

func (c *Client) apiError(nsid string, resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return fmt.Errorf("%w: %s returned status %d", appErrors.ErrBlueskyAPI, nsid, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s: %s (%s)", appErrors.ErrBlueskyAPI, nsid, payload.Message, payload.Error)
}
