package theme

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range Available() {
		th, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", name, err)
		}
		if th.Name != name {
			t.Errorf("Load(%q).Name = %q", name, th.Name)
		}
		if th.Bg == "" || th.Fg == "" || th.Task == "" {
			t.Errorf("Load(%q) has empty core colors: %+v", name, th)
		}
	}
}

func TestLoadFallsBackToFrappe(t *testing.T) {
	th, err := Load("no-such-theme")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if th.Name != "frappe" {
		t.Errorf("fallback theme = %q, want frappe", th.Name)
	}
}

func TestLoadDefaultsEmptyName(t *testing.T) {
	th, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if th.Name != "frappe" {
		t.Errorf("default theme = %q, want frappe", th.Name)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("Mocha") {
		t.Error("IsAvailable should be case-insensitive")
	}
	if IsAvailable("dracula") {
		t.Error("IsAvailable(dracula) = true, want false")
	}
}
