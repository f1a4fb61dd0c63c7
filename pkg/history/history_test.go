package history

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreAddList(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first, err := s.Add(Entry{UserID: "u1", Script: "Ngày xưa..."})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() || first.Chars != 11 {
		t.Errorf("entry not filled in: %+v", first)
	}
	if _, err := s.Add(Entry{UserID: "u1", Script: "Lần thứ hai."}); err != nil {
		t.Fatal(err)
	}

	list := s.List("u1", 0)
	if len(list) != 2 || list[0].Script != "Lần thứ hai." {
		t.Errorf("want newest first, got %+v", list)
	}
	if len(s.List("u1", 1)) != 1 || len(s.List("nobody", 0)) != 0 {
		t.Error("limit or unknown user handled wrong")
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.List("u1", 0); len(got) != 2 || got[1].ID != first.ID {
		t.Errorf("history not persisted: %+v", got)
	}
}

func TestStoreRejectsFailures(t *testing.T) {
	s, _ := Open(t.TempDir())
	if _, err := s.Add(Entry{UserID: "u1", Script: "⚠️ Chưa có API key"}); !errors.Is(err, ErrFailureText) {
		t.Errorf("want ErrFailureText, got %v", err)
	}
	if _, err := s.Add(Entry{UserID: "u1", Script: "  "}); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("want ErrEmptyScript, got %v", err)
	}
	if len(s.List("u1", 0)) != 0 {
		t.Error("nothing should have been stored")
	}
}

func TestStoreCap(t *testing.T) {
	s, _ := Open(t.TempDir())
	for i := range MaxPerUser + 5 {
		if _, err := s.Add(Entry{UserID: "u1", Script: fmt.Sprintf("script %d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	list := s.List("u1", 0)
	if len(list) != MaxPerUser {
		t.Errorf("kept %d entries, want %d", len(list), MaxPerUser)
	}
	if list[0].Script != fmt.Sprintf("script %d", MaxPerUser+4) {
		t.Errorf("newest entry = %q", list[0].Script)
	}
}
