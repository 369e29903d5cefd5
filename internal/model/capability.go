package model

import (
	"fmt"
	"strings"
)

// Capability is a single space-scoped access right.
type Capability uint8

const (
	// CapabilityRead allows reading a space and its messages.
	CapabilityRead Capability = 1 << iota
	// CapabilityWrite allows posting messages.
	CapabilityWrite
	// CapabilityDelete allows removing messages.
	CapabilityDelete
)

const capabilityMask = CapabilitySet(CapabilityRead | CapabilityWrite | CapabilityDelete)

var capabilityNames = []struct {
	capability Capability
	name       string
}{
	{CapabilityRead, "read"},
	{CapabilityWrite, "write"},
	{CapabilityDelete, "delete"},
}

func (c Capability) String() string {
	for _, cn := range capabilityNames {
		if cn.capability == c {
			return cn.name
		}
	}
	return fmt.Sprintf("capability(%d)", uint8(c))
}

// ParseCapability parses a capability name, ignoring case.
func ParseCapability(name string) (Capability, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, cn := range capabilityNames {
		if cn.name == normalized {
			return cn.capability, nil
		}
	}
	return 0, NewValidationError("capabilities", fmt.Sprintf("unknown capability %q", name))
}

// CapabilitySet is the bitmask stored in a permission grant.
type CapabilitySet uint8

// CapabilitySetFull holds every capability; it is what an owner implicitly has.
const CapabilitySetFull = capabilityMask

// NewCapabilitySet combines capabilities into a set.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// ParseCapabilitySet parses a list of capability names. Duplicates are folded.
func ParseCapabilitySet(names []string) (CapabilitySet, error) {
	if len(names) == 0 {
		return 0, NewValidationError("capabilities", "at least one capability is required")
	}
	var s CapabilitySet
	for _, name := range names {
		c, err := ParseCapability(name)
		if err != nil {
			return 0, err
		}
		s |= CapabilitySet(c)
	}
	return s, nil
}

// CapabilitySetFromCode decodes the stored integer code.
func CapabilitySetFromCode(code int16) (CapabilitySet, error) {
	if code < 0 || code > int16(capabilityMask) {
		return 0, fmt.Errorf("malformed capability code %d", code)
	}
	s := CapabilitySet(code)
	if !s.Valid() {
		return 0, fmt.Errorf("malformed capability code %d", code)
	}
	return s, nil
}

// Code returns the stored integer code.
func (s CapabilitySet) Code() int16 {
	return int16(s)
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	return c != 0 && s&CapabilitySet(c) == CapabilitySet(c)
}

// Contains reports whether every capability of other is also in s.
func (s CapabilitySet) Contains(other CapabilitySet) bool {
	return s&other == other
}

// Valid reports whether the set is non-empty and uses only defined bits.
func (s CapabilitySet) Valid() bool {
	return s != 0 && s&^capabilityMask == 0
}

// Names lists the capability names in the set in bit order.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, cn := range capabilityNames {
		if s.Has(cn.capability) {
			names = append(names, cn.name)
		}
	}
	return names
}

func (s CapabilitySet) String() string {
	return strings.Join(s.Names(), ",")
}
