package session

import (
	"context"
	"sync"
	"time"

	"vidsight/internal/models"
)

// PickOutcome is the result panel of a pick: either a comment or a
// user-facing error, never both.
type PickOutcome struct {
	Comment *models.Comment `json:"comment,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// PickerSnapshot is an immutable view of a RandomPicker.
type PickerSnapshot struct {
	RequireSubscription bool              `json:"require_subscription"`
	CandidateChannels   []models.Channel  `json:"candidate_channels"`
	Typeahead           TypeaheadSnapshot `json:"typeahead"`
	PickStatus          Status            `json:"pick_status"`
	Picked              *PickOutcome      `json:"picked,omitempty"`
	PickError           string            `json:"pick_error,omitempty"`
}

// RandomPicker drives one invocation of the random-comment dialog. It reads
// the video session's active video as a point-in-time snapshot and owns its
// own typeahead for curating candidate channels. A picker never outlives its
// dialog; the workspace builds a fresh one per open.
type RandomPicker struct {
	gw       Gateway
	video    *VideoSession
	onChange func()

	Typeahead *TypeaheadController

	mu         sync.Mutex
	require    bool
	candidates []models.Channel
	pickSeq    uint64
	pickStatus Status
	picked     *PickOutcome
}

func NewRandomPicker(gw Gateway, video *VideoSession, debounce time.Duration, onChange func()) *RandomPicker {
	p := &RandomPicker{
		gw:         gw,
		video:      video,
		onChange:   onChange,
		pickStatus: StatusIdle,
	}
	p.Typeahead = NewTypeaheadController(gw, debounce, onChange)
	return p
}

// ToggleRequireSubscription flips the subscriber requirement. Turning it on
// auto-includes the active video's channel once; turning it off keeps the
// curated set so re-enabling restores it.
func (p *RandomPicker) ToggleRequireSubscription() {
	p.mu.Lock()
	p.require = !p.require
	if p.require {
		if _, channel, ok := p.video.ActiveChannel(); ok {
			p.addCandidateLocked(channel)
		}
	}
	p.mu.Unlock()
	p.emit()
}

// AddCandidate appends channel unless already present, then consumes the
// typeahead.
func (p *RandomPicker) AddCandidate(channel models.Channel) {
	p.mu.Lock()
	p.addCandidateLocked(channel)
	p.mu.Unlock()

	p.Typeahead.Reset()
	p.emit()
}

func (p *RandomPicker) addCandidateLocked(channel models.Channel) {
	for _, c := range p.candidates {
		if c.ID == channel.ID {
			return
		}
	}
	p.candidates = append(p.candidates, channel)
}

func (p *RandomPicker) RemoveCandidate(channelID string) {
	p.mu.Lock()
	for i, c := range p.candidates {
		if c.ID == channelID {
			p.candidates = append(p.candidates[:i], p.candidates[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	p.emit()
}

// Pick requests one random comment. With the subscriber requirement on and
// no candidates the call is rejected locally — no network, prior status
// untouched. The previous result is cleared before the call goes out so a
// stale comment is never visible during a new pick.
func (p *RandomPicker) Pick(ctx context.Context) {
	videoID, channel, ok := p.video.ActiveChannel()

	p.mu.Lock()
	if !ok || (p.require && len(p.candidates) == 0) {
		p.mu.Unlock()
		return
	}
	var scope []string
	if p.require {
		for _, c := range p.candidates {
			scope = append(scope, c.ID)
		}
	} else {
		scope = []string{channel.ID}
	}
	require := p.require
	p.pickSeq++
	tag := p.pickSeq
	p.picked = nil
	p.pickStatus = StatusLoading
	p.mu.Unlock()
	p.emit()

	comment, err := p.gw.RandomPick(ctx, videoID, require, scope)

	p.mu.Lock()
	if tag != p.pickSeq {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.pickStatus = StatusFailed
		p.picked = &PickOutcome{Error: failureMessage(err, pickFailedMessage)}
	} else {
		p.pickStatus = StatusSucceeded
		p.picked = &PickOutcome{Comment: comment}
	}
	p.mu.Unlock()
	p.emit()
}

func (p *RandomPicker) Snapshot() PickerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := PickerSnapshot{
		RequireSubscription: p.require,
		CandidateChannels:   append([]models.Channel(nil), p.candidates...),
		Typeahead:           p.Typeahead.Snapshot(),
		PickStatus:          p.pickStatus,
	}
	if p.picked != nil {
		outcome := *p.picked
		snap.Picked = &outcome
		snap.PickError = outcome.Error
	}
	return snap
}

func (p *RandomPicker) emit() {
	if p.onChange != nil {
		p.onChange()
	}
}
