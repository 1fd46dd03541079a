package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"vidsight/internal/models"
)

// fakeGateway records calls and delegates to per-operation functions, which
// tests replace to control payloads and completion order.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	searchFn    func(q string) (*models.SearchResult, error)
	typeaheadFn func(q string) ([]models.Channel, error)
	detailFn    func(id string) (*models.VideoDetail, error)
	summaryFn   func(id string, regenerate bool) (string, error)
	pickFn      func(videoID string, needsSubscription bool, channelIDs []string) (*models.Comment, error)
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGateway) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeGateway) Search(ctx context.Context, q string) (*models.SearchResult, error) {
	f.record("search:" + q)
	if f.searchFn == nil {
		return &models.SearchResult{}, nil
	}
	return f.searchFn(q)
}

func (f *fakeGateway) ChannelTypeahead(ctx context.Context, q string) ([]models.Channel, error) {
	f.record("typeahead:" + q)
	if f.typeaheadFn == nil {
		return nil, nil
	}
	return f.typeaheadFn(q)
}

func (f *fakeGateway) VideoDetail(ctx context.Context, id string) (*models.VideoDetail, error) {
	f.record("detail:" + id)
	if f.detailFn == nil {
		return &models.VideoDetail{}, nil
	}
	return f.detailFn(id)
}

func (f *fakeGateway) CommentSummary(ctx context.Context, id string, regenerate bool) (string, error) {
	f.record("summary:" + id)
	if f.summaryFn == nil {
		return "", nil
	}
	return f.summaryFn(id, regenerate)
}

func (f *fakeGateway) RandomPick(ctx context.Context, videoID string, needsSubscription bool, channelIDs []string) (*models.Comment, error) {
	f.record("pick:" + videoID)
	if f.pickFn == nil {
		return &models.Comment{}, nil
	}
	return f.pickFn(videoID, needsSubscription, channelIDs)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func videoIDs(videos []models.Video) []string {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
