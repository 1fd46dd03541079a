package session

import (
	"context"
	"sync"

	"vidsight/internal/models"
)

// VideoSnapshot is an immutable view of a VideoSession.
type VideoSnapshot struct {
	VideoID  string           `json:"video_id,omitempty"`
	Video    *models.Video    `json:"video"`
	Comments []models.Comment `json:"comments"`
	Summary  *string          `json:"summary"`
	Status   Status           `json:"status"`
	Error    string           `json:"error,omitempty"`
}

// VideoSession owns the currently open video: its detail, comments, and
// comment summary. Detail fetches are issued at most once per video id for
// the session's lifetime; Close clears the current state but keeps that
// guard, so reopening the same video never refetches.
type VideoSession struct {
	notifier

	gw Gateway

	mu        sync.Mutex
	epoch     uint64 // bumped by Close; revokes in-flight commits
	openSeq   uint64
	sumSeq    uint64
	videoID   string
	video     *models.Video
	comments  []models.Comment
	summary   *string
	status    Status
	err       string
	requested map[string]struct{}
}

func NewVideoSession(gw Gateway) *VideoSession {
	return &VideoSession{
		gw:        gw,
		status:    StatusIdle,
		requested: make(map[string]struct{}),
	}
}

// Open makes videoID the active video. If a detail fetch was already issued
// for this id in this session's lifetime the fetch is skipped; otherwise the
// id is recorded (success or not) and the detail call goes out.
func (s *VideoSession) Open(ctx context.Context, videoID string) {
	if videoID == "" {
		return
	}

	s.mu.Lock()
	s.videoID = videoID
	if _, done := s.requested[videoID]; done {
		s.mu.Unlock()
		s.notify()
		return
	}
	s.requested[videoID] = struct{}{}
	s.openSeq++
	tag := s.openSeq
	epoch := s.epoch
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()
	s.notify()

	res, err := s.gw.VideoDetail(ctx, videoID)

	s.mu.Lock()
	if epoch != s.epoch || tag != s.openSeq {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.status = StatusFailed
		s.err = failureMessage(err, videoFailedMessage)
	} else {
		s.status = StatusSucceeded
		s.err = ""
		video := res.Video
		s.video = &video
		s.comments = res.Comments
		if s.comments == nil {
			s.comments = []models.Comment{}
		}
		s.summary = res.Summary
	}
	s.mu.Unlock()
	s.notify()
}

// RequestSummary fetches the comment summary for the active video. The
// backend owns caching and regeneration; success replaces the summary
// wholesale, failure leaves the previous one in place.
func (s *VideoSession) RequestSummary(ctx context.Context, regenerate bool) {
	s.mu.Lock()
	if s.videoID == "" {
		s.mu.Unlock()
		return
	}
	videoID := s.videoID
	s.sumSeq++
	tag := s.sumSeq
	epoch := s.epoch
	s.status = StatusLoading
	s.mu.Unlock()
	s.notify()

	summary, err := s.gw.CommentSummary(ctx, videoID, regenerate)

	s.mu.Lock()
	if epoch != s.epoch || tag != s.sumSeq || s.videoID != videoID {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.status = StatusFailed
		s.err = failureMessage(err, summaryFailedMessage)
	} else {
		s.status = StatusSucceeded
		s.err = ""
		s.summary = &summary
	}
	s.mu.Unlock()
	s.notify()
}

// Close clears the current video state and revokes any in-flight fetch's
// right to commit. The requested-ids guard deliberately survives; only a
// fresh session starts with it empty.
func (s *VideoSession) Close() {
	s.mu.Lock()
	s.epoch++
	s.videoID = ""
	s.video = nil
	s.comments = nil
	s.summary = nil
	s.status = StatusIdle
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// ActiveChannel reports the active video's id and owning channel, when the
// detail is loaded. Callers get a value snapshot, never a live binding.
func (s *VideoSession) ActiveChannel() (videoID string, channel models.Channel, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoID == "" || s.video == nil || s.video.ChannelID == "" {
		return "", models.Channel{}, false
	}
	return s.videoID, models.Channel{ID: s.video.ChannelID, Title: s.video.ChannelTitle}, true
}

func (s *VideoSession) Snapshot() VideoSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := VideoSnapshot{
		VideoID:  s.videoID,
		Comments: append([]models.Comment(nil), s.comments...),
		Status:   s.status,
		Error:    s.err,
	}
	if s.video != nil {
		video := *s.video
		snap.Video = &video
	}
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}
	return snap
}
