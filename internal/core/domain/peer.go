package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PeerID packs a user, chat or channel identifier into 64 bits. The type
// lives in bits 32..35; the bare id in the low 32 bits.
type PeerID uint64

const (
	peerTypeMask    PeerID = 0xF << 32
	peerIDMask      PeerID = 0xFFFFFFFF
	peerTypeUser    PeerID = 0
	peerTypeChat    PeerID = 1 << 32
	peerTypeChannel PeerID = 2 << 32
)

// PeerFromUser returns the peer id of a user.
func PeerFromUser(id uint32) PeerID { return peerTypeUser | PeerID(id) }

// PeerFromChat returns the peer id of a basic group.
func PeerFromChat(id uint32) PeerID { return peerTypeChat | PeerID(id) }

// PeerFromChannel returns the peer id of a channel or supergroup.
func PeerFromChannel(id uint32) PeerID { return peerTypeChannel | PeerID(id) }

func (p PeerID) IsUser() bool    { return p&peerTypeMask == peerTypeUser }
func (p PeerID) IsChat() bool    { return p&peerTypeMask == peerTypeChat }
func (p PeerID) IsChannel() bool { return p&peerTypeMask == peerTypeChannel }

// Bare returns the id without the type bits.
func (p PeerID) Bare() uint32 { return uint32(p & peerIDMask) }

// String formats the peer as user#N, chat#N or channel#N. Unknown type bits
// are printed as the raw number.
func (p PeerID) String() string {
	switch {
	case p.IsUser():
		return "user#" + strconv.FormatUint(uint64(p.Bare()), 10)
	case p.IsChat():
		return "chat#" + strconv.FormatUint(uint64(p.Bare()), 10)
	case p.IsChannel():
		return "channel#" + strconv.FormatUint(uint64(p.Bare()), 10)
	default:
		return strconv.FormatUint(uint64(p), 10)
	}
}

// ParsePeerID accepts the String form or a raw decimal value.
func ParsePeerID(s string) (PeerID, error) {
	s = strings.TrimSpace(s)
	if kind, num, ok := strings.Cut(s, "#"); ok {
		id, err := strconv.ParseUint(num, 10, 32)
		if err != nil {
			return 0, ErrInvalidArgument.WithDetails(fmt.Sprintf("peer id %q", s)).WithCause(err)
		}
		switch kind {
		case "user":
			return PeerFromUser(uint32(id)), nil
		case "chat":
			return PeerFromChat(uint32(id)), nil
		case "channel":
			return PeerFromChannel(uint32(id)), nil
		}
		return 0, ErrInvalidArgument.WithDetails(fmt.Sprintf("peer type %q", kind))
	}

	raw, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidArgument.WithDetails(fmt.Sprintf("peer id %q", s)).WithCause(err)
	}
	return PeerID(raw), nil
}

// PeerSet is an unordered set of peers.
type PeerSet map[PeerID]struct{}

// Has reports whether p is in the set. A nil set is empty.
func (s PeerSet) Has(p PeerID) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in ascending order.
func (s PeerSet) Sorted() []PeerID {
	out := make([]PeerID, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy. The copy is never nil.
func (s PeerSet) Clone() PeerSet {
	out := make(PeerSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}
