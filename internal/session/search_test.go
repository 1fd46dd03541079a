package session

import (
	"context"
	"errors"
	"testing"

	"vidsight/internal/gateway"
	"vidsight/internal/models"
)

func lofiResult() *models.SearchResult {
	return &models.SearchResult{
		Channels: []models.Channel{
			{ID: "chA", Title: "Lofi Girl"},
			{ID: "chB", Title: "Chillhop Music"},
		},
		Videos: []models.Video{
			{ID: "v1", ChannelID: "chA", Title: "lofi hip hop radio"},
			{ID: "v2", ChannelID: "chB", Title: "chillhop essentials"},
			{ID: "v3", ChannelID: "chA", Title: "synthwave radio"},
		},
	}
}

func TestSubmitCommitsResults(t *testing.T) {
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		return lofiResult(), nil
	}}
	s := NewSearchSession(fg)

	s.Submit(context.Background(), "  lofi  ")

	snap := s.Snapshot()
	if snap.Status != StatusSucceeded {
		t.Fatalf("Status = %q, want %q", snap.Status, StatusSucceeded)
	}
	if snap.Query != "lofi" {
		t.Errorf("Query = %q, want trimmed %q", snap.Query, "lofi")
	}
	if len(snap.Channels) != 2 || len(snap.Videos) != 3 {
		t.Errorf("Got %d channels / %d videos, want 2 / 3", len(snap.Channels), len(snap.Videos))
	}
	if fg.callCount("search:") != 1 {
		t.Errorf("Search called %d times, want 1", fg.callCount("search:"))
	}
}

func TestSubmitBlankQueryIsNoOp(t *testing.T) {
	fg := &fakeGateway{}
	s := NewSearchSession(fg)

	s.Submit(context.Background(), "   ")

	if got := fg.callCount("search:"); got != 0 {
		t.Errorf("Search called %d times, want 0", got)
	}
	if snap := s.Snapshot(); snap.Status != StatusIdle {
		t.Errorf("Status = %q, want %q", snap.Status, StatusIdle)
	}
}

func TestSubmitResetsSelection(t *testing.T) {
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		return lofiResult(), nil
	}}
	s := NewSearchSession(fg)

	s.Submit(context.Background(), "lofi")
	s.ToggleChannel("chA")
	if snap := s.Snapshot(); len(snap.SelectedChannelIDs) != 1 {
		t.Fatalf("Selection = %v, want [chA]", snap.SelectedChannelIDs)
	}

	s.Submit(context.Background(), "jazz")

	snap := s.Snapshot()
	if len(snap.SelectedChannelIDs) != 0 {
		t.Errorf("Selection = %v after new search, want empty", snap.SelectedChannelIDs)
	}
	if got := videoIDs(snap.FilteredVideos); !equalStrings(got, []string{"v1", "v2", "v3"}) {
		t.Errorf("FilteredVideos = %v, want all videos", got)
	}
}

func TestSubmitFailureKeepsPriorResults(t *testing.T) {
	calls := 0
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		calls++
		if calls == 1 {
			return lofiResult(), nil
		}
		return nil, &gateway.RemoteError{Status: 500, Message: "upstream unavailable"}
	}}
	s := NewSearchSession(fg)

	s.Submit(context.Background(), "lofi")
	s.Submit(context.Background(), "jazz")

	snap := s.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", snap.Status, StatusFailed)
	}
	if snap.Error != "upstream unavailable" {
		t.Errorf("Error = %q, want remote message", snap.Error)
	}
	if len(snap.Videos) != 3 {
		t.Errorf("Got %d videos after failure, want prior 3 preserved", len(snap.Videos))
	}
	if snap.Query != "jazz" {
		t.Errorf("Query = %q, want %q", snap.Query, "jazz")
	}
}

func TestSubmitFailureFallbackMessage(t *testing.T) {
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		return nil, errors.New("connection refused")
	}}
	s := NewSearchSession(fg)

	s.Submit(context.Background(), "lofi")

	if snap := s.Snapshot(); snap.Error != searchFailedMessage {
		t.Errorf("Error = %q, want fallback %q", snap.Error, searchFailedMessage)
	}
}

func TestFilteredVideos(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     []string
	}{
		{"no selection returns all", nil, []string{"v1", "v2", "v3"}},
		{"single channel", []string{"chA"}, []string{"v1", "v3"}},
		{"multiple channels keep order", []string{"chB", "chA"}, []string{"v1", "v2", "v3"}},
		{"unknown channel matches nothing", []string{"chZ"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
				return lofiResult(), nil
			}}
			s := NewSearchSession(fg)
			s.Submit(context.Background(), "lofi")
			for _, id := range tt.selected {
				s.ToggleChannel(id)
			}

			if got := videoIDs(s.FilteredVideos()); !equalStrings(got, tt.want) {
				t.Errorf("FilteredVideos = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleChannelFlipsMembership(t *testing.T) {
	s := NewSearchSession(&fakeGateway{})

	s.ToggleChannel("chA")
	s.ToggleChannel("chB")
	s.ToggleChannel("chA")

	snap := s.Snapshot()
	if !equalStrings(snap.SelectedChannelIDs, []string{"chB"}) {
		t.Errorf("Selection = %v, want [chB]", snap.SelectedChannelIDs)
	}
}

func TestSubmitStaleResponseDiscarded(t *testing.T) {
	started := make(chan string, 2)
	gates := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		started <- q
		<-gates[q]
		return &models.SearchResult{Videos: []models.Video{{ID: q}}}, nil
	}}
	s := NewSearchSession(fg)

	done := make(chan struct{}, 2)
	go func() { s.Submit(context.Background(), "slow"); done <- struct{}{} }()
	<-started
	go func() { s.Submit(context.Background(), "fast"); done <- struct{}{} }()
	<-started

	// The newer query completes first; the older response arrives late and
	// must be dropped.
	close(gates["fast"])
	<-done
	close(gates["slow"])
	<-done

	snap := s.Snapshot()
	if got := videoIDs(snap.Videos); !equalStrings(got, []string{"fast"}) {
		t.Errorf("Videos = %v, want the newer query's result only", got)
	}
	if snap.Status != StatusSucceeded {
		t.Errorf("Status = %q, want %q", snap.Status, StatusSucceeded)
	}
}

func TestClearDiscardsInFlightResponse(t *testing.T) {
	started := make(chan struct{})
	gate := make(chan struct{})
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		close(started)
		<-gate
		return lofiResult(), nil
	}}
	s := NewSearchSession(fg)

	done := make(chan struct{})
	go func() { s.Submit(context.Background(), "lofi"); close(done) }()
	<-started
	s.Clear()
	close(gate)
	<-done

	snap := s.Snapshot()
	if snap.Status != StatusIdle {
		t.Errorf("Status = %q after clear, want %q", snap.Status, StatusIdle)
	}
	if len(snap.Videos) != 0 || snap.Query != "" {
		t.Errorf("Snapshot = %+v, want empty state", snap)
	}
}

func TestSubscribeObservesTransitions(t *testing.T) {
	fg := &fakeGateway{searchFn: func(q string) (*models.SearchResult, error) {
		return lofiResult(), nil
	}}
	s := NewSearchSession(fg)

	notified := 0
	cancel := s.Subscribe(func() { notified++ })

	s.Submit(context.Background(), "lofi")
	if notified != 2 {
		t.Errorf("Got %d notifications, want 2 (loading + terminal)", notified)
	}

	cancel()
	s.Clear()
	if notified != 2 {
		t.Errorf("Got %d notifications after cancel, want still 2", notified)
	}
}
