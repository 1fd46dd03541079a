package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace bundles one client's sessions: a search session, a video
// session, and at most one open random picker. Sessions inside a workspace
// are independent; the picker is the only cross-reader and it is rebuilt
// from scratch on every dialog open.
type Workspace struct {
	ID     uuid.UUID
	Search *SearchSession
	Video  *VideoSession

	debounce time.Duration
	gw       Gateway

	mu       sync.Mutex
	picker   *RandomPicker
	lastSeen time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(kind string)
}

func newWorkspace(gw Gateway, debounce time.Duration) *Workspace {
	w := &Workspace{
		ID:       uuid.New(),
		gw:       gw,
		debounce: debounce,
		lastSeen: time.Now(),
		subs:     make(map[int]func(kind string)),
	}
	w.Search = NewSearchSession(gw)
	w.Video = NewVideoSession(gw)
	w.Search.Subscribe(func() { w.emit("search") })
	w.Video.Subscribe(func() { w.emit("video") })
	return w
}

// Subscribe registers fn to run after every state transition in the
// workspace; kind names the session that changed ("search", "video",
// "picker").
func (w *Workspace) Subscribe(fn func(kind string)) (cancel func()) {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	return func() {
		w.subMu.Lock()
		defer w.subMu.Unlock()
		delete(w.subs, id)
	}
}

func (w *Workspace) emit(kind string) {
	w.subMu.Lock()
	fns := make([]func(string), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.subMu.Unlock()

	for _, fn := range fns {
		fn(kind)
	}
}

// OpenPicker replaces any previous picker with a fresh one. Picker state
// never survives across dialog invocations.
func (w *Workspace) OpenPicker() *RandomPicker {
	w.mu.Lock()
	picker := NewRandomPicker(w.gw, w.Video, w.debounce, func() { w.emit("picker") })
	w.picker = picker
	w.mu.Unlock()
	w.emit("picker")
	return picker
}

// Picker returns the open picker, or nil.
func (w *Workspace) Picker() *RandomPicker {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.picker
}

func (w *Workspace) ClosePicker() {
	w.mu.Lock()
	w.picker = nil
	w.mu.Unlock()
	w.emit("picker")
}

// Touch marks the workspace active for TTL accounting. Commands touch via
// Manager.Get; an attached snapshot stream touches periodically so a
// watch-only client is not swept mid-stream.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen.Before(cutoff)
}

// Manager is the workspace registry. Workspaces left untouched for the TTL
// are swept, since a client that disappeared without releasing its
// workspace would otherwise leak sessions.
type Manager struct {
	gw       Gateway
	debounce time.Duration
	ttl      time.Duration

	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewManager(gw Gateway, debounce, ttl time.Duration) *Manager {
	m := &Manager{
		gw:         gw,
		debounce:   debounce,
		ttl:        ttl,
		workspaces: make(map[uuid.UUID]*Workspace),
		stopChan:   make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Manager) Create() *Workspace {
	w := newWorkspace(m.gw, m.debounce)

	m.mu.Lock()
	m.workspaces[w.ID] = w
	m.mu.Unlock()

	return w
}

// Get returns the workspace and marks it active.
func (m *Manager) Get(id uuid.UUID) (*Workspace, bool) {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	m.mu.Unlock()

	if ok {
		w.Touch()
	}
	return w, ok
}

func (m *Manager) Release(id uuid.UUID) {
	m.mu.Lock()
	delete(m.workspaces, id)
	m.mu.Unlock()
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.ttl)

			m.mu.Lock()
			for id, w := range m.workspaces {
				if w.idleSince(cutoff) {
					delete(m.workspaces, id)
					log.Printf("Swept idle workspace %s", id)
				}
			}
			m.mu.Unlock()
		}
	}
}
