package session

import (
	"context"
	"strings"
	"sync"

	"vidsight/internal/models"
)

// SearchSnapshot is an immutable view of a SearchSession.
type SearchSnapshot struct {
	Query              string           `json:"query"`
	Channels           []models.Channel `json:"channels"`
	Videos             []models.Video   `json:"videos"`
	SelectedChannelIDs []string         `json:"selected_channel_ids"`
	FilteredVideos     []models.Video   `json:"filtered_videos"`
	Status             Status           `json:"status"`
	Error              string           `json:"error,omitempty"`
}

// SearchSession owns query submission, the current result set, and the
// derived channel-selection filter. Overlapping submissions are raced: each
// outgoing request carries a sequence tag and only the most recently issued
// one may commit its response.
type SearchSession struct {
	notifier

	gw Gateway

	mu       sync.Mutex
	seq      uint64
	query    string
	channels []models.Channel
	videos   []models.Video
	selected []string
	status   Status
	err      string
}

func NewSearchSession(gw Gateway) *SearchSession {
	return &SearchSession{gw: gw, status: StatusIdle}
}

// Submit issues a search for query. Blank input is a no-op. The call blocks
// until the response is committed or discarded as stale.
func (s *SearchSession) Submit(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	s.seq++
	tag := s.seq
	s.query = query
	s.status = StatusLoading
	s.mu.Unlock()
	s.notify()

	res, err := s.gw.Search(ctx, query)

	s.mu.Lock()
	if tag != s.seq {
		// A newer submission or a clear superseded this response.
		s.mu.Unlock()
		return
	}
	if err != nil {
		// Prior results stay visible alongside the error.
		s.status = StatusFailed
		s.err = failureMessage(err, searchFailedMessage)
	} else {
		s.status = StatusSucceeded
		s.err = ""
		// Missing arrays default to empty, matching the backend contract.
		s.channels = res.Channels
		if s.channels == nil {
			s.channels = []models.Channel{}
		}
		s.videos = res.Videos
		if s.videos == nil {
			s.videos = []models.Video{}
		}
		s.selected = nil
	}
	s.mu.Unlock()
	s.notify()
}

// Clear resets the session synchronously. In-flight responses are discarded
// when they arrive.
func (s *SearchSession) Clear() {
	s.mu.Lock()
	s.seq++
	s.query = ""
	s.channels = nil
	s.videos = nil
	s.selected = nil
	s.status = StatusIdle
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// ToggleChannel flips channelID's membership in the selection. The id is not
// validated against the current channel list.
func (s *SearchSession) ToggleChannel(channelID string) {
	s.mu.Lock()
	found := false
	for i, id := range s.selected {
		if id == channelID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.selected = append(s.selected, channelID)
	}
	s.mu.Unlock()
	s.notify()
}

// FilteredVideos returns the videos whose channel is selected, in original
// order; with no selection it returns all videos.
func (s *SearchSession) FilteredVideos() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *SearchSession) filteredLocked() []models.Video {
	if len(s.selected) == 0 {
		return append([]models.Video(nil), s.videos...)
	}
	selected := make(map[string]struct{}, len(s.selected))
	for _, id := range s.selected {
		selected[id] = struct{}{}
	}
	var out []models.Video
	for _, v := range s.videos {
		if _, ok := selected[v.ChannelID]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *SearchSession) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SearchSnapshot{
		Query:              s.query,
		Channels:           append([]models.Channel(nil), s.channels...),
		Videos:             append([]models.Video(nil), s.videos...),
		SelectedChannelIDs: append([]string(nil), s.selected...),
		FilteredVideos:     s.filteredLocked(),
		Status:             s.status,
		Error:              s.err,
	}
}
