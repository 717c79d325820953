package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category tags the kind of celestial object a handle refers to.
// It occupies the most significant byte of a Handle.
type Category uint8

const (
	CategoryStar Category = iota
	CategoryPlanet
	CategoryAsteroid
	CategoryManmade
)

const (
	sequenceBits = 56
	categoryMask = uint64(0xFF) << sequenceBits

	// MaxSequence is the largest sequence a handle can carry.
	MaxSequence uint64 = 1<<sequenceBits - 1
)

var (
	ErrMalformedHandle    = errors.New("malformed entity handle")
	ErrSequenceOutOfRange = errors.New("entity sequence out of range")
)

var categoryNames = map[Category]string{
	CategoryStar:     "star",
	CategoryPlanet:   "planet",
	CategoryAsteroid: "asteroid",
	CategoryManmade:  "manmade",
}

// Categories lists every known category in tag order.
func Categories() []Category {
	return []Category{CategoryStar, CategoryPlanet, CategoryAsteroid, CategoryManmade}
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory resolves a lowercase category name.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for category, n := range categoryNames {
		if n == name {
			return category, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MalformedHandleError reports a handle whose high byte is not a known category.
type MalformedHandleError struct {
	Handle Handle
	Tag    uint8
}

func (e *MalformedHandleError) Error() string {
	return fmt.Sprintf("%s: unknown category tag 0x%02x in %#016x", ErrMalformedHandle, e.Tag, uint64(e.Handle))
}

func (e *MalformedHandleError) Unwrap() error {
	return ErrMalformedHandle
}

// Handle packs a category (high 8 bits) and a sequence (low 56 bits)
// into a single comparable value.
type Handle uint64

// NewHandle packs sequence and category. Sequences wider than 56 bits
// are rejected rather than allowed to spill into the category byte.
func NewHandle(sequence uint64, category Category) (Handle, error) {
	if sequence > MaxSequence {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrSequenceOutOfRange, sequence, MaxSequence)
	}
	if !category.Valid() {
		return 0, &MalformedHandleError{Tag: uint8(category)}
	}
	return Handle(uint64(category)<<sequenceBits | sequence), nil
}

// MustHandle is like NewHandle but panics on invalid input.
func MustHandle(sequence uint64, category Category) Handle {
	h, err := NewHandle(sequence, category)
	if err != nil {
		panic(err)
	}
	return h
}

// Sequence returns the low 56 bits.
func (h Handle) Sequence() uint64 {
	return uint64(h) &^ categoryMask
}

// Category decodes the high byte. Handles from foreign or corrupted
// sources fail with ErrMalformedHandle instead of coercing to a default.
func (h Handle) Category() (Category, error) {
	tag := uint8(uint64(h) >> sequenceBits)
	category := Category(tag)
	if !category.Valid() {
		return 0, &MalformedHandleError{Handle: h, Tag: tag}
	}
	return category, nil
}

func (h Handle) Valid() bool {
	_, err := h.Category()
	return err == nil
}

func (h Handle) String() string {
	category, err := h.Category()
	if err != nil {
		return fmt.Sprintf("invalid:%#016x", uint64(h))
	}
	return fmt.Sprintf("%s:%d", category, h.Sequence())
}

// ParseHandle accepts either "<category>:<sequence>" or the raw decimal value.
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedHandle)
	}

	if name, seq, ok := strings.Cut(s, ":"); ok {
		category, err := ParseCategory(name)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedHandle, err)
		}
		sequence, err := strconv.ParseUint(seq, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid sequence %q", ErrMalformedHandle, seq)
		}
		return NewHandle(sequence, category)
	}

	raw, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHandle, s)
	}
	h := Handle(raw)
	if _, err := h.Category(); err != nil {
		return 0, err
	}
	return h, nil
}

func (h Handle) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, &MalformedHandleError{Handle: h, Tag: uint8(uint64(h) >> sequenceBits)}
	}
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(text []byte) error {
	parsed, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
