package models

// Channel is a content channel as reported by the catalog backend.
// Identity is ID; channels are immutable once fetched.
type Channel struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ThumbnailURL *string `json:"thumbnail_url"`
}
