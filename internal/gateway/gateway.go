package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"vidsight/internal/models"
)

// Client talks to the catalog backend. It owns no business logic: it issues
// the five read operations, attaches a bearer credential per call, retries
// transient statuses, and decodes {"message": ...} failure bodies.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	maxTries  uint
	retryWait time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit caps outbound calls so a burst of session commands cannot
// hammer the backend.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func WithRetry(maxTries uint, initialWait time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.retryWait = initialWait
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		tokens:    StaticTokenSource(""),
		limiter:   rate.NewLimiter(rate.Limit(10), 20),
		maxTries:  3,
		retryWait: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the catalog for channels and videos matching query.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	var body struct {
		Response models.SearchResult `json:"response"`
	}
	q := url.Values{"q": {query}}
	if err := c.get(ctx, "/api/youtube/search", q, &body); err != nil {
		return nil, err
	}
	return &body.Response, nil
}

// ChannelTypeahead is the channel-scoped variant of Search used by the
// candidate-channel picker.
func (c *Client) ChannelTypeahead(ctx context.Context, query string) ([]models.Channel, error) {
	var body struct {
		Response struct {
			Channels []models.Channel `json:"channels"`
		} `json:"response"`
	}
	q := url.Values{"q": {query}, "scope": {"channels"}}
	if err := c.get(ctx, "/api/youtube/search", q, &body); err != nil {
		return nil, err
	}
	return body.Response.Channels, nil
}

// VideoDetail fetches a video with its comment tree and any cached summary.
func (c *Client) VideoDetail(ctx context.Context, videoID string) (*models.VideoDetail, error) {
	var body struct {
		Response models.VideoDetail `json:"response"`
	}
	if err := c.get(ctx, "/api/youtube/video/"+url.PathEscape(videoID), nil, &body); err != nil {
		return nil, err
	}
	return &body.Response, nil
}

// CommentSummary asks the backend for the AI comment summary of a video.
// Caching and regeneration semantics are owned by the backend; regenerate is
// passed through untouched.
func (c *Client) CommentSummary(ctx context.Context, videoID string, regenerate bool) (string, error) {
	var body struct {
		Summary string `json:"summary"`
	}
	q := url.Values{"regenerate": {strconv.FormatBool(regenerate)}}
	if err := c.get(ctx, "/api/youtube/comments/summary/"+url.PathEscape(videoID), q, &body); err != nil {
		return "", err
	}
	return body.Summary, nil
}

// RandomPick asks the backend for one random comment on videoID, optionally
// restricted to authors subscribed to all of channelIDs.
func (c *Client) RandomPick(ctx context.Context, videoID string, needsSubscription bool, channelIDs []string) (*models.Comment, error) {
	var body struct {
		Comment models.Comment `json:"comment"`
	}
	q := url.Values{
		"video_id":           {videoID},
		"needs_subscription": {strconv.FormatBool(needsSubscription)},
		"channels":           {strings.Join(channelIDs, ",")},
	}
	if err := c.get(ctx, "/api/youtube/comments/pick", q, &body); err != nil {
		return nil, err
	}
	return &body.Comment, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	operation := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("backend request: %w", err))
		}

		if resp.StatusCode >= 400 {
			rerr := decodeRemoteError(resp)
			if isRetryableStatus(resp.StatusCode) {
				return nil, rerr
			}
			return nil, backoff.Permanent(rerr)
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryWait
	bo.MaxInterval = 5 * time.Second

	resp, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
