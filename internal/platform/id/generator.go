package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random (version 4) UUID strings.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// Sequence returns fixed ids in order, then fails. Intended for tests and seeds.
type Sequence struct {
	ids []string
	pos int
}

func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

func (s *Sequence) NewID() (string, error) {
	if s.pos >= len(s.ids) {
		return "", fmt.Errorf("id sequence exhausted after %d ids", len(s.ids))
	}
	out := s.ids[s.pos]
	s.pos++
	return out, nil
}
