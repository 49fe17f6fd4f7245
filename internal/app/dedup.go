package app

import (
	"strings"
	"sync"
	"time"

	"github.com/Lerwix/taler-site/internal/domain/application"
)

// DedupGuard suppresses repeat submissions from the same (telegram, role)
// pair inside a cooldown window. Memory-resident: a restart clears it, which
// is fine because it exists to absorb double clicks, not to deduplicate.
type DedupGuard struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
	now    func() time.Time
}

func NewDedupGuard(window time.Duration) *DedupGuard {
	return &DedupGuard{
		seen:   make(map[string]time.Time),
		window: window,
		now:    time.Now,
	}
}

// Allow records the pair and reports whether the submission may proceed.
func (g *DedupGuard) Allow(handle string, role application.Role) bool {
	if g == nil || g.window <= 0 {
		return true
	}
	key := strings.ToLower(handle) + "|" + string(role)

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if last, ok := g.seen[key]; ok && now.Sub(last) < g.window {
		return false
	}
	// Lazy sweep of expired pairs.
	for k, at := range g.seen {
		if now.Sub(at) >= g.window {
			delete(g.seen, k)
		}
	}
	g.seen[key] = now
	return true
}
