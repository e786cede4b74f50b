package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docqa/internal/domain"
)

func TestStore_lifecycle(t *testing.T) {
	st := NewStore(time.Hour, nil)
	s := st.Create()
	if s.ID() == "" {
		t.Fatal("empty id")
	}
	got, err := st.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d", st.Len())
	}

	dir := filepath.Join(t.TempDir(), "staged")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	_ = s.ReplaceCorpus(domain.Corpus{{Title: "a.pdf"}}, dir)

	if err := st.Delete(s.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("staging dir survives Delete")
	}
	if _, err := st.Get(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
	if err := st.Delete(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v", err)
	}
}

func TestStore_unknown(t *testing.T) {
	if _, err := NewStore(time.Hour, nil).Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestStore_expiryClosesSession(t *testing.T) {
	st := NewStore(20*time.Millisecond, nil)
	s := st.Create()
	dir := filepath.Join(t.TempDir(), "staged")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	_ = s.ReplaceCorpus(domain.Corpus{{Title: "a.pdf"}}, dir)

	deadline := time.Now().Add(2 * time.Second)
	for !s.Closed() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("expired session was not closed")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("staging dir survives expiry")
	}
	if _, err := st.Get(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry: %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	st := NewStore(0, nil)
	a, b := st.Create(), st.Create()
	st.Close()
	if !a.Closed() || !b.Closed() {
		t.Error("sessions left open")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d", st.Len())
	}
}
