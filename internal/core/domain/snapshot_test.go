package domain

import (
	"errors"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.FloatPlayerColumn != ColumnSecond || s.FloatPlayerCorner != RectPartTopRight {
		t.Errorf("float player = %v/%v, want second/top_right", s.FloatPlayerColumn, s.FloatPlayerCorner)
	}
	if !s.ThirdSectionInfoEnabled || s.TabbedSelectorSectionEnabled {
		t.Error("info section should be on and tabbed section off by default")
	}
	if s.ThirdSectionExtendedBy != -1 {
		t.Errorf("ThirdSectionExtendedBy = %d, want -1", s.ThirdSectionExtendedBy)
	}
	if s.SupportChatsTimeSlice != 604800 {
		t.Errorf("SupportChatsTimeSlice = %d, want 604800", s.SupportChatsTimeSlice)
	}
	if s.SupportSwitch != SupportSwitchNext {
		t.Errorf("SupportSwitch = %v, want next", s.SupportSwitch)
	}
	if s.SoundOverrides == nil || s.GroupStickersSectionHidden == nil {
		t.Error("collections should be allocated")
	}
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := DefaultSettings()
	s.SoundOverrides["message"] = "a.mp3"
	s.GroupStickersSectionHidden[PeerFromChannel(7)] = struct{}{}

	c := s.Clone()
	c.SoundOverrides["message"] = "b.mp3"
	delete(c.GroupStickersSectionHidden, PeerFromChannel(7))

	if s.SoundOverrides["message"] != "a.mp3" {
		t.Error("clone shares sound overrides")
	}
	if !s.GroupStickersSectionHidden.Has(PeerFromChannel(7)) {
		t.Error("clone shares hidden sections")
	}
}

func TestSnapshot_Equal(t *testing.T) {
	a := DefaultSettings()
	b := DefaultSettings()
	if !a.Equal(b) {
		t.Fatal("defaults should be equal")
	}

	b.SoundOverrides = nil
	if !a.Equal(b) {
		t.Error("nil and empty overrides should be equal")
	}

	b.ArchiveCollapsed = true
	if a.Equal(b) {
		t.Error("differing flag should not be equal")
	}

	c := DefaultSettings()
	c.GroupStickersSectionHidden[PeerFromUser(1)] = struct{}{}
	if a.Equal(c) {
		t.Error("differing hidden sections should not be equal")
	}
}

func TestSnapshot_Normalize(t *testing.T) {
	s := DefaultSettings()
	s.TabbedSelectorSectionEnabled = true
	s.Normalize()
	if s.TabbedSelectorSectionEnabled {
		t.Error("info section should win")
	}

	s.ThirdSectionInfoEnabled = false
	s.TabbedSelectorSectionEnabled = true
	s.Normalize()
	if !s.TabbedSelectorSectionEnabled {
		t.Error("tabbed section should stay on when info is off")
	}
}

func TestPeerID(t *testing.T) {
	tests := []struct {
		peer    PeerID
		str     string
		user    bool
		chat    bool
		channel bool
	}{
		{PeerFromUser(42), "user#42", true, false, false},
		{PeerFromChat(42), "chat#42", false, true, false},
		{PeerFromChannel(42), "channel#42", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if tt.peer.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.peer.String(), tt.str)
			}
			if tt.peer.IsUser() != tt.user || tt.peer.IsChat() != tt.chat || tt.peer.IsChannel() != tt.channel {
				t.Error("type predicates disagree")
			}
			if tt.peer.Bare() != 42 {
				t.Errorf("Bare() = %d, want 42", tt.peer.Bare())
			}

			parsed, err := ParsePeerID(tt.str)
			if err != nil || parsed != tt.peer {
				t.Errorf("ParsePeerID(%q) = %v, %v", tt.str, parsed, err)
			}
		})
	}
}

func TestParsePeerID_Raw(t *testing.T) {
	p, err := ParsePeerID("8589934593")
	if err != nil {
		t.Fatalf("ParsePeerID() error = %v", err)
	}
	if p != PeerFromChannel(1) {
		t.Errorf("ParsePeerID() = %v, want channel#1", p)
	}

	for _, bad := range []string{"group#1", "user#x", "abc"} {
		if _, err := ParsePeerID(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParsePeerID(%q) error = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestPeerSet_Sorted(t *testing.T) {
	s := PeerSet{PeerFromChannel(1): {}, PeerFromUser(5): {}, PeerFromChat(2): {}}
	got := s.Sorted()
	want := []PeerID{PeerFromUser(5), PeerFromChat(2), PeerFromChannel(1)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}
