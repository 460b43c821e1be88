// Package history remembers where exported documents were written, keyed
// by task GID, so repeated exports of the same task are easy to find.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	xdgAppName  = "asanadoc"
	historyFile = "history.json"

	// Entries older than this are dropped when the history is saved.
	retention = 90 * 24 * time.Hour
)

type Entry struct {
	Title      string    `json:"title"`
	Path       string    `json:"path"`
	ExportedAt time.Time `json:"exported_at"`
}

// Export is an Entry together with the task GID it is stored under.
type Export struct {
	GID string
	Entry
}

type History struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	mu      sync.RWMutex
	dirty   bool
}

func New() (*History, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", xdgAppName, historyFile)
	return NewAtPath(path)
}

// NewAtPath opens (or initializes) a history file at an explicit path.
func NewAtPath(path string) (*History, error) {
	h := &History{
		Entries: make(map[string]Entry),
		Path:    path,
	}

	if _, err := os.Stat(path); err == nil {
		if err := h.Load(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *History) Load() error {
	f, err := os.Open(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(h)
}

// Save writes the history back to disk, pruning stale entries first. It is
// a no-op when nothing changed.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.prune(time.Now())
	if !h.dirty {
		return nil
	}

	dir := filepath.Dir(h.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.Create(h.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h); err != nil {
		return err
	}
	h.dirty = false
	return nil
}

// Record notes that the given task was exported to path.
func (h *History) Record(gid, title, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Entries[gid] = Entry{
		Title:      title,
		Path:       path,
		ExportedAt: time.Now(),
	}
	h.dirty = true
}

func (h *History) Get(gid string) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.Entries[gid]
	return e, ok
}

func (h *History) Remove(gid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.Entries[gid]; exists {
		delete(h.Entries, gid)
		h.dirty = true
	}
}

// List returns all exports, newest first.
func (h *History) List() []Export {
	h.mu.RLock()
	defer h.mu.RUnlock()

	exports := make([]Export, 0, len(h.Entries))
	for gid, e := range h.Entries {
		exports = append(exports, Export{GID: gid, Entry: e})
	}
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].ExportedAt.After(exports[j].ExportedAt)
	})
	return exports
}

// prune removes entries past the retention window. Callers hold the lock.
func (h *History) prune(now time.Time) {
	for gid, e := range h.Entries {
		if now.Sub(e.ExportedAt) > retention {
			delete(h.Entries, gid)
			h.dirty = true
		}
	}
}
