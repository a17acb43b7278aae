package game

import (
	"context"
	"time"
)

// Condition is a precondition over stored attributes, evaluated at write time.
// A zero Condition only requires the item to exist.
type Condition struct {
	Status  *Status
	Version *int64
}

func StatusIs(status Status) Condition {
	return Condition{Status: &status}
}

func (c Condition) WithVersion(version int64) Condition {
	c.Version = &version
	return c
}

func (c Condition) Matches(g Game) bool {
	if c.Status != nil && g.Status != *c.Status {
		return false
	}
	if c.Version != nil && g.Version != *c.Version {
		return false
	}
	return true
}

// Changes lists the attributes an update replaces. Nil fields are left as stored.
type Changes struct {
	Status  *Status
	Teams   *[]TeamEntry
	Matches *[]MatchEntry
}

func (c Changes) IsEmpty() bool {
	return c.Status == nil && c.Teams == nil && c.Matches == nil
}

// Apply returns g with the changes applied. Bookkeeping fields are untouched.
func (c Changes) Apply(g Game) Game {
	out := g.Clone()
	if c.Status != nil {
		out.Status = *c.Status
	}
	if c.Teams != nil {
		out.Teams = append([]TeamEntry(nil), (*c.Teams)...)
	}
	if c.Matches != nil {
		out.Matches = append([]MatchEntry(nil), (*c.Matches)...)
	}
	return out
}

// ListOptions bounds an owner query on createdAt.
type ListOptions struct {
	After      time.Time
	Before     time.Time
	Descending bool
	Limit      int
}

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Create(ctx context.Context, g Game) error
	// Update applies changes when cond holds, stamping UpdatedAt and bumping
	// Version. It returns ErrConditionFailed when cond does not hold or the
	// game no longer exists.
	Update(ctx context.Context, gameID string, changes Changes, cond Condition) (Game, error)
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]Game, error)
}
