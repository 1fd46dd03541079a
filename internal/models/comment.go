package models

import "time"

// Comment is a viewer comment. Replies share the shape but are at most one
// level deep; the backend enforces that, we do not re-validate it.
type Comment struct {
	Author  string     `json:"author"`
	Text    string     `json:"text"`
	Likes   int        `json:"likes"`
	Date    *time.Time `json:"date,omitempty"`
	Replies []Comment  `json:"replies,omitempty"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
