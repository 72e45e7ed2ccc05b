// Package anonymize maps node identifiers to display labels. While
// identities are intact each node gets a stable pseudonym derived from its
// id; once suppression is triggered the real-name map is discarded and
// labels switch permanently to positional ones.
package anonymize

import (
	"fmt"
	"sync"
)

// stems are the fixed pseudonym prefixes. The hash of the node id picks one.
var stems = [8]string{"Bright", "Calm", "Swift", "Quiet", "Bold", "Keen", "Vivid", "Mellow"}

// Labeler assigns display labels for one session.
type Labeler struct {
	mu         sync.RWMutex
	suppressed bool
	names      map[string]string
}

// NewLabeler creates a labeler with identities intact.
func NewLabeler() *Labeler {
	return &Labeler{names: make(map[string]string)}
}

// SetName records a participant's real display name. Ignored after
// suppression; a suppressed session never learns new names.
func (l *Labeler) SetName(id, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.suppressed {
		return
	}
	l.names[id] = name
}

// NameOf returns the recorded real name, if identities are intact.
func (l *Labeler) NameOf(id string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.suppressed {
		return "", false
	}
	name, ok := l.names[id]
	return name, ok
}

// Suppress irreversibly discards the id-to-name map and switches labeling
// to the positional scheme. There is no way back within a session.
func (l *Labeler) Suppress() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suppressed = true
	l.names = nil
}

// Suppressed reports whether identities have been suppressed.
func (l *Labeler) Suppressed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.suppressed
}

// Reset returns the labeler to a fresh, unsuppressed state. Used on session
// boundaries only.
func (l *Labeler) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suppressed = false
	l.names = make(map[string]string)
}

// LabelFor returns the display label for a node. position is the node's
// index in the current enumeration order and is only used once suppressed.
func (l *Labeler) LabelFor(id string, position int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.suppressed {
		return fmt.Sprintf("Node-%02d", position+1)
	}
	h := hashID(id)
	return fmt.Sprintf("%s-%02d", stems[h%len(stems)], h%100)
}

// hashID is a simple order-independent hash: the byte sum of the id. Two
// ids with the same characters in a different order collide, which is fine
// for pseudonym selection.
func hashID(id string) int {
	sum := 0
	for i := 0; i < len(id); i++ {
		sum += int(id[i])
	}
	return sum
}
