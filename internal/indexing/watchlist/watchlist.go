// Package watchlist holds the addresses the scanner matches transactions against.
package watchlist

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

var (
	ErrEmptyAddress     = errors.New("address is empty")
	ErrInvalidAddress   = errors.New("address is not a 20-byte hex address")
	ErrDuplicateAddress = errors.New("address is already watched")
)

// DuplicatePolicy decides what Add does with an address that is already watched.
type DuplicatePolicy string

const (
	// PolicyAppend adds another entry for the same address.
	PolicyAppend DuplicatePolicy = "append"
	// PolicyUpdate replaces the label of the existing entry in place.
	PolicyUpdate DuplicatePolicy = "update"
	// PolicyReject refuses the add with ErrDuplicateAddress.
	PolicyReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy accepts "append", "update" or "reject". Empty means update.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyUpdate, nil
	case PolicyAppend, PolicyUpdate, PolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// Direction of a matched transfer relative to the watched address.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// Options configures a Store.
type Options struct {
	Policy DuplicatePolicy
	// Strict rejects anything that is not a 20-byte hex address.
	Strict bool
}

// Store is an insertion-ordered list of watched addresses.
type Store struct {
	mu      sync.RWMutex
	entries []*domain.WatchedAddress
	policy  DuplicatePolicy
	strict  bool
	now     func() time.Time
}

func New(opts Options) *Store {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyUpdate
	}
	return &Store{
		policy: policy,
		strict: opts.Strict,
		now:    time.Now,
	}
}

// Normalize trims and lowercases an address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Add watches address under label. A blank label becomes "Target N".
func (s *Store) Add(address, label string) (domain.WatchedAddress, error) {
	addr := Normalize(address)
	if addr == "" {
		return domain.WatchedAddress{}, ErrEmptyAddress
	}
	if s.strict && !common.IsHexAddress(addr) {
		return domain.WatchedAddress{}, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	label = strings.TrimSpace(label)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.find(addr); existing != nil {
		switch s.policy {
		case PolicyReject:
			return domain.WatchedAddress{}, fmt.Errorf("%w: %s", ErrDuplicateAddress, addr)
		case PolicyUpdate:
			if label != "" {
				existing.Label = label
			}
			existing.Status = domain.WatchStatusActive
			return *existing, nil
		}
	}

	if label == "" {
		label = fmt.Sprintf("Target %d", len(s.entries)+1)
	}
	entry := &domain.WatchedAddress{
		Address:   addr,
		Label:     label,
		Status:    domain.WatchStatusActive,
		CreatedAt: s.now(),
	}
	s.entries = append(s.entries, entry)
	return *entry, nil
}

// Remove drops every entry for address and returns how many were removed.
// Removing an address that is not watched is a no-op.
func (s *Store) Remove(address string) int {
	addr := Normalize(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Address != addr {
			kept = append(kept, e)
		}
	}
	removed := len(s.entries) - len(kept)
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = kept
	return removed
}

// List returns copies of all entries in insertion order.
func (s *Store) List() []domain.WatchedAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WatchedAddress, len(s.entries))
	for i, e := range s.entries {
		result[i] = *e
	}
	return result
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Contains checks if an address is watched.
func (s *Store) Contains(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(Normalize(address)) != nil
}

// Match returns the first entry, in insertion order, whose address is from
// or to. A match on from is Outgoing.
func (s *Store) Match(from, to string) (domain.WatchedAddress, Direction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if from != "" && e.Address == from {
			return *e, Outgoing, true
		}
		if to != "" && e.Address == to {
			return *e, Incoming, true
		}
	}
	return domain.WatchedAddress{}, Incoming, false
}

// MarkActive records that address moved funds in block. The recorded block
// never goes backwards.
func (s *Store) MarkActive(address string, block uint64) {
	addr := Normalize(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.find(addr); e != nil && block > e.LastActiveBlock {
		e.LastActiveBlock = block
	}
}

func (s *Store) find(addr string) *domain.WatchedAddress {
	for _, e := range s.entries {
		if e.Address == addr {
			return e
		}
	}
	return nil
}
