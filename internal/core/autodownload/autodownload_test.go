package autodownload

import (
	"errors"
	"testing"
)

func TestDefaults(t *testing.T) {
	f := Defaults()

	if got := f.Limit(SourceUser, TypePhoto); got != MaxBytesLimit {
		t.Errorf("user photo limit = %d, want %d", got, MaxBytesLimit)
	}
	if got := f.Limit(SourceChannel, TypeVoiceMessage); got != 0 {
		t.Errorf("channel voice limit = %d, want 0", got)
	}
	if got := f.Limit(SourceGroup, TypeFile); got != 0 {
		t.Errorf("group file limit = %d, want 0", got)
	}
}

func TestSetLimit_Clamps(t *testing.T) {
	var f Full
	f.SetLimit(SourceUser, TypeFile, -5)
	if got := f.Limit(SourceUser, TypeFile); got != 0 {
		t.Errorf("negative limit stored as %d, want 0", got)
	}

	f.SetLimit(SourceUser, TypeFile, MaxBytesLimit+1)
	if got := f.Limit(SourceUser, TypeFile); got != MaxBytesLimit {
		t.Errorf("oversized limit stored as %d, want %d", got, MaxBytesLimit)
	}

	// Out-of-range keys are ignored.
	f.SetLimit(Source(42), TypeFile, 1)
	if got := f.Limit(Source(42), TypeFile); got != 0 {
		t.Errorf("Limit(invalid) = %d, want 0", got)
	}
}

func TestShouldDownload(t *testing.T) {
	var f Full
	f.SetLimit(SourceGroup, TypeMusic, 1024)

	tests := []struct {
		name string
		size int64
		want bool
	}{
		{"below limit", 512, true},
		{"at limit", 1024, true},
		{"above limit", 1025, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ShouldDownload(SourceGroup, TypeMusic, tt.size); got != tt.want {
				t.Errorf("ShouldDownload(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}

	if f.ShouldDownload(SourceUser, TypeMusic, 1) {
		t.Error("disabled type should not download")
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	f := Defaults()
	f.SetLimit(SourceChannel, TypeFile, 4096)

	data := f.Serialize()
	if want := 1 + int(sourcesCount)*int(typesCount)*4; len(data) != want {
		t.Fatalf("Serialize() length = %d, want %d", len(data), want)
	}

	var got Full
	if err := got.SetFromSerialized(data); err != nil {
		t.Fatalf("SetFromSerialized() error = %v", err)
	}
	if got != f {
		t.Error("round trip produced a different policy")
	}
}

func TestSetFromSerialized_Rejects(t *testing.T) {
	valid := Defaults().Serialize()

	badVersion := append([]byte(nil), valid...)
	badVersion[0] = 9

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrEmpty},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"truncated", valid[:len(valid)-2], ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Defaults()
			f.SetLimit(SourceUser, TypeFile, 77)
			before := f

			err := f.SetFromSerialized(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("SetFromSerialized() error = %v, want %v", err, tt.want)
			}
			if f != before {
				t.Error("policy changed after a rejected blob")
			}
		})
	}
}
