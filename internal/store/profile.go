package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

// Keys under which the profile is stored.
const (
	KeyBestScore = "kitefly.bestScore"
	KeyBadges    = "kitefly.badges"
)

// Record is the persisted profile.
type Record struct {
	BestScore int
	Badges    []arcade.Badge // unlocked tiers, lowest first
}

// Has reports whether b is unlocked.
func (r Record) Has(b arcade.Badge) bool {
	for _, x := range r.Badges {
		if x == b {
			return true
		}
	}
	return false
}

// Merge folds a finished session into r. Reaching a tier unlocks every tier
// below it too. The bool reports whether anything changed.
func (r Record) Merge(score int, badge arcade.Badge) (Record, bool) {
	changed := false
	out := Record{BestScore: r.BestScore}
	if score > out.BestScore {
		out.BestScore = score
		changed = true
	}
	for _, b := range arcade.AllBadges {
		if r.Has(b) {
			out.Badges = append(out.Badges, b)
			continue
		}
		if b <= badge {
			out.Badges = append(out.Badges, b)
			changed = true
		}
	}
	return out, changed
}

// Profile reads and writes the Record over a KV. It implements
// arcade.Recorder.
type Profile struct {
	mu     sync.Mutex
	kv     KV
	logger *zap.Logger
}

var _ arcade.Recorder = (*Profile)(nil)

// NewProfile wraps kv. A nil logger is replaced with a no-op logger.
func NewProfile(kv KV, logger *zap.Logger) *Profile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profile{kv: kv, logger: logger}
}

// Load returns the stored record. Missing or unreadable values fall back to
// the zero record; they are logged, never returned.
func (p *Profile) Load() Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

func (p *Profile) load() Record {
	var rec Record

	raw, ok, err := p.kv.Get(KeyBestScore)
	switch {
	case err != nil:
		p.logger.Warn("best score unreadable, using default", zap.Error(err))
	case ok:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			p.logger.Warn("best score corrupt, using default", zap.String("value", raw))
		} else {
			rec.BestScore = n
		}
	}

	raw, ok, err = p.kv.Get(KeyBadges)
	switch {
	case err != nil:
		p.logger.Warn("badges unreadable, using default", zap.Error(err))
	case ok:
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			p.logger.Warn("badges corrupt, using default", zap.String("value", raw), zap.Error(err))
			break
		}
		for _, b := range arcade.AllBadges {
			for _, n := range names {
				if n == b.String() {
					rec.Badges = append(rec.Badges, b)
					break
				}
			}
		}
	}
	return rec
}

// BestScore returns the stored best, or 0.
func (p *Profile) BestScore() int {
	return p.Load().BestScore
}

// Record merges a finished session into the stored profile, writing only
// the keys that changed.
func (p *Profile) Record(score int, badge arcade.Badge) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.load()
	next, changed := prev.Merge(score, badge)
	if !changed {
		return nil
	}
	if next.BestScore != prev.BestScore {
		if err := p.kv.Set(KeyBestScore, strconv.Itoa(next.BestScore)); err != nil {
			return fmt.Errorf("save best score: %w", err)
		}
	}
	if len(next.Badges) != len(prev.Badges) {
		names := make([]string, len(next.Badges))
		for i, b := range next.Badges {
			names[i] = b.String()
		}
		data, err := json.Marshal(names)
		if err != nil {
			return fmt.Errorf("encode badges: %w", err)
		}
		if err := p.kv.Set(KeyBadges, string(data)); err != nil {
			return fmt.Errorf("save badges: %w", err)
		}
	}
	p.logger.Info("profile updated",
		zap.Int("best_score", next.BestScore),
		zap.Int("badges", len(next.Badges)),
		zap.Bool("new_best", next.BestScore != prev.BestScore))
	return nil
}
