package models

import "time"

// VideoStatistics carries the backend's count fields. The backend reports
// them as strings and omits any it does not have.
type VideoStatistics struct {
	ViewCount    string `json:"viewCount,omitempty"`
	LikeCount    string `json:"likeCount,omitempty"`
	CommentCount string `json:"commentCount,omitempty"`
}

type Video struct {
	ID           string           `json:"id"`
	ChannelID    string           `json:"channel_id"`
	ChannelTitle string           `json:"channel_title"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ThumbnailURL string           `json:"thumbnail_url"`
	PublishedAt  time.Time        `json:"published_at"`
	Statistics   *VideoStatistics `json:"statistics,omitempty"`
}

// SearchResult is the payload of a catalog search.
type SearchResult struct {
	Channels []Channel `json:"channels"`
	Videos   []Video   `json:"videos"`
}

// VideoDetail is the payload of a video-detail fetch. Summary is non-nil
// only when the backend already has a cached comment summary.
type VideoDetail struct {
	Video    Video     `json:"video"`
	Comments []Comment `json:"comments"`
	Summary  *string   `json:"summary"`
}
