package match

import (
	"log/slog"
	"sync"
	"time"

	"github.com/igniteclubhq/pitchboard/internal/clock"
)

// Context holds the current match identity and clock source. It feeds
// the logging context handler so every record carries the half and
// clock position it was written at.
type Context struct {
	mu       sync.RWMutex
	Team     string
	Opponent string
	source   clock.Source
}

// NewContext creates a Context with placeholder team names.
func NewContext() *Context {
	return &Context{
		Team:     "Home",
		Opponent: "Away",
	}
}

// SetTeams sets the match identity.
func (c *Context) SetTeams(team, opponent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Team = team
	c.Opponent = opponent
}

// SetClock attaches the clock source. Safe to call after logging has
// been set up; Attrs tolerates a nil source.
func (c *Context) SetClock(source clock.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = source
}

// GetTeams returns the match identity.
func (c *Context) GetTeams() (team, opponent string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Team, c.Opponent
}

// Attrs returns the dynamic log attributes for the current match
// moment. Satisfies logging.ContextProvider.
func (c *Context) Attrs() []slog.Attr {
	c.mu.RLock()
	source := c.source
	team := c.Team
	opponent := c.Opponent
	c.mu.RUnlock()

	attrs := []slog.Attr{
		slog.String("match", team+" v "+opponent),
	}
	if source == nil {
		return attrs
	}
	snap, err := source.ReadClock()
	if err != nil || snap == nil {
		return attrs
	}
	return append(attrs,
		slog.Int("half", snap.CurrentHalf),
		slog.Int("matchSeconds", snap.TotalSeconds(time.Now())),
		slog.Bool("clockRunning", snap.IsRunning),
	)
}
