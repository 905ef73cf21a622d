package watchlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

const (
	addrA = "0xaaaa000000000000000000000000000000000001"
	addrB = "0xbbbb000000000000000000000000000000000002"
	addrC = "0xcccc000000000000000000000000000000000003"
)

func TestAdd_NormalizesAndDefaultsLabel(t *testing.T) {
	s := New(Options{})

	e, err := s.Add("  0xAAAA000000000000000000000000000000000001 ", "")
	require.NoError(t, err)
	assert.Equal(t, addrA, e.Address)
	assert.Equal(t, "Target 1", e.Label)
	assert.Equal(t, domain.WatchStatusActive, e.Status)

	e, err = s.Add(addrB, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Target 2", e.Label)

	e, err = s.Add(addrC, "Treasury")
	require.NoError(t, err)
	assert.Equal(t, "Treasury", e.Label)
}

func TestAdd_EmptyAddress(t *testing.T) {
	s := New(Options{})

	_, err := s.Add("   ", "label")
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_StrictMode(t *testing.T) {
	s := New(Options{Strict: true})

	_, err := s.Add("0x1234", "short")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = s.Add(addrA, "ok")
	assert.NoError(t, err)

	lax := New(Options{})
	_, err = lax.Add("0x1234", "short")
	assert.NoError(t, err)
}

func TestAdd_DuplicatePolicies(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		s := New(Options{Policy: PolicyUpdate})
		_, _ = s.Add(addrA, "first")
		_, _ = s.Add(addrB, "second")

		e, err := s.Add(addrA, "renamed")
		require.NoError(t, err)
		assert.Equal(t, "renamed", e.Label)

		list := s.List()
		require.Len(t, list, 2)
		assert.Equal(t, addrA, list[0].Address, "position kept")
		assert.Equal(t, "renamed", list[0].Label)

		e, err = s.Add(addrA, "")
		require.NoError(t, err)
		assert.Equal(t, "renamed", e.Label, "blank label keeps existing")
	})

	t.Run("append", func(t *testing.T) {
		s := New(Options{Policy: PolicyAppend})
		_, _ = s.Add(addrA, "first")

		e, err := s.Add(addrA, "")
		require.NoError(t, err)
		assert.Equal(t, "Target 2", e.Label)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("reject", func(t *testing.T) {
		s := New(Options{Policy: PolicyReject})
		_, _ = s.Add(addrA, "first")

		_, err := s.Add("0xAAAA000000000000000000000000000000000001", "again")
		assert.ErrorIs(t, err, ErrDuplicateAddress)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("default is update", func(t *testing.T) {
		s := New(Options{})
		_, _ = s.Add(addrA, "first")
		_, _ = s.Add(addrA, "second")
		assert.Equal(t, 1, s.Len())
	})
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyUpdate, p)

	p, err = ParseDuplicatePolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)

	_, err = ParseDuplicatePolicy("merge")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	s := New(Options{Policy: PolicyAppend})
	_, _ = s.Add(addrA, "one")
	_, _ = s.Add(addrB, "two")
	_, _ = s.Add(addrA, "three")

	assert.Equal(t, 2, s.Remove("0xAAAA000000000000000000000000000000000001"))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, addrB, list[0].Address)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	s := New(Options{})
	_, _ = s.Add(addrA, "one")
	before := s.List()

	assert.Equal(t, 0, s.Remove(addrC))
	assert.Equal(t, before, s.List())
}

func TestList_ReturnsCopies(t *testing.T) {
	s := New(Options{})
	_, _ = s.Add(addrA, "one")

	list := s.List()
	list[0].Label = "mutated"

	assert.Equal(t, "one", s.List()[0].Label)
}

func TestMatch(t *testing.T) {
	s := New(Options{})
	_, _ = s.Add(addrA, "a")
	_, _ = s.Add(addrB, "b")

	e, dir, ok := s.Match(addrA, addrC)
	require.True(t, ok)
	assert.Equal(t, addrA, e.Address)
	assert.Equal(t, Outgoing, dir)

	e, dir, ok = s.Match(addrC, addrB)
	require.True(t, ok)
	assert.Equal(t, addrB, e.Address)
	assert.Equal(t, Incoming, dir)

	// first entry in insertion order wins even when it matches on to
	e, dir, ok = s.Match(addrB, addrA)
	require.True(t, ok)
	assert.Equal(t, addrA, e.Address)
	assert.Equal(t, Incoming, dir)

	_, _, ok = s.Match(addrC, "")
	assert.False(t, ok)

	_, _, ok = s.Match("", "")
	assert.False(t, ok)
}

func TestMarkActive(t *testing.T) {
	s := New(Options{})
	_, _ = s.Add(addrA, "a")

	s.MarkActive(addrA, 120)
	s.MarkActive(addrA, 100)

	assert.Equal(t, uint64(120), s.List()[0].LastActiveBlock)
	assert.True(t, s.Contains("0xAAAA000000000000000000000000000000000001"))
}
