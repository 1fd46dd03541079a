package session

import (
	"context"
	"errors"

	"vidsight/internal/gateway"
	"vidsight/internal/models"
)

// Gateway is the slice of the remote gateway the sessions consume.
// *gateway.Client satisfies it; tests substitute fakes.
type Gateway interface {
	Search(ctx context.Context, query string) (*models.SearchResult, error)
	ChannelTypeahead(ctx context.Context, query string) ([]models.Channel, error)
	VideoDetail(ctx context.Context, videoID string) (*models.VideoDetail, error)
	CommentSummary(ctx context.Context, videoID string, regenerate bool) (string, error)
	RandomPick(ctx context.Context, videoID string, needsSubscription bool, channelIDs []string) (*models.Comment, error)
}

// User-facing fallback messages for transport failures. Backend-reported
// messages take precedence.
const (
	searchFailedMessage  = "An error occurred while searching. Please try again."
	videoFailedMessage   = "An error occurred while loading the video. Please try again."
	summaryFailedMessage = "Failed to update comment summary"
	pickFailedMessage    = "Failed to pick a random comment. Please try again."
)

// failureMessage maps an operation error to what the user sees: the
// backend's own message when it sent one, the fallback otherwise.
func failureMessage(err error, fallback string) string {
	var rerr *gateway.RemoteError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message
	}
	return fallback
}
