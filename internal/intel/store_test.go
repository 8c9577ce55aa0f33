package intel

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "intel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)

	err := s.Record(Capture{
		CallID: "call-1",
		Data:   map[string]any{"scammerNumber": "+15551234", "tactic": "otp"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(got))
	}
	if got[0].CallID != "call-1" {
		t.Errorf("expected call-1, got %q", got[0].CallID)
	}
	if got[0].Data["tactic"] != "otp" {
		t.Errorf("expected data to round-trip, got %v", got[0].Data)
	}
	if got[0].ID == "" {
		t.Error("expected generated id")
	}
	if got[0].CapturedAt.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, callID := range []string{"old", "mid", "new"} {
		err := s.Record(Capture{
			CallID:     callID,
			CapturedAt: base.Add(time.Duration(i) * time.Minute),
			Data:       map[string]any{},
		})
		if err != nil {
			t.Fatalf("record %s: %v", callID, err)
		}
	}

	got, err := s.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
	if got[0].CallID != "new" || got[1].CallID != "mid" {
		t.Errorf("expected newest first, got %s then %s", got[0].CallID, got[1].CallID)
	}
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)
	got, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty archive, got %d rows", len(got))
	}
}
