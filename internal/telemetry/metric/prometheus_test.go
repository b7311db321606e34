package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Fatal("registry field is nil")
	}
	if r.DecodeTotal == nil || r.WritesTotal == nil || r.WriteDuration == nil {
		t.Error("settings collectors not initialized")
	}

	// Two registries must not collide.
	_ = NewRegistry()
}

func TestHandler_RuntimeMetrics(t *testing.T) {
	body := scrape(t, NewRegistry())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
}

func TestSettingsMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordDecode("ok")
	r.RecordDecode("ok")
	r.RecordDecode("truncated")
	r.IncSaveScheduled()
	r.IncSaveScheduled()
	r.IncSaveCoalesced()
	r.RecordWrite(WriteOK, 3*time.Millisecond)
	r.RecordWrite(WriteUnchanged, 0)
	r.SetBlobBytes(512)

	body := scrape(t, r)
	for _, want := range []string{
		`tdesktop_settings_decode_total{result="ok"} 2`,
		`tdesktop_settings_decode_total{result="truncated"} 1`,
		`tdesktop_settings_save_scheduled_total 2`,
		`tdesktop_settings_save_coalesced_total 1`,
		`tdesktop_settings_writes_total{result="ok"} 1`,
		`tdesktop_settings_writes_total{result="unchanged"} 1`,
		`tdesktop_settings_write_duration_seconds_count 1`,
		`tdesktop_settings_blob_bytes 512`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	r.RecordDecode("ok")
	r.RecordWrite(WriteFailed, time.Second)
	r.IncSaveScheduled()
	r.IncSaveCoalesced()
	r.SetBlobBytes(1)
	r.TrackSession(nil)()
}

type fakeSource SessionStats

func (f fakeSource) SessionStats() SessionStats { return SessionStats(f) }

func TestSessionCollector(t *testing.T) {
	r := NewRegistry()
	untrack := r.TrackSession(fakeSource{Account: "100", PendingSave: true, LastWrite: 1700000000})

	body := scrape(t, r)
	if !strings.Contains(body, `tdesktop_session_pending_save{account="100"} 1`) {
		t.Error("expected pending_save gauge for account 100")
	}
	if !strings.Contains(body, `tdesktop_session_last_write_timestamp_seconds{account="100"} 1.7e+09`) {
		t.Error("expected last_write gauge for account 100")
	}

	untrack()
	untrack()
	if strings.Contains(scrape(t, r), `account="100"`) {
		t.Error("untracked session still exported")
	}
}
