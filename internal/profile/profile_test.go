package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != Default().Name {
		t.Errorf("expected default name, got %q", p.Name)
	}
	if len(p.Jobs) != 3 || len(p.Languages) != 2 {
		t.Errorf("expected default CV, got %d jobs and %d languages", len(p.Jobs), len(p.Languages))
	}
}

func TestLoadEmptyPath(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Contact.Email != "bslowik4@gmail.com" {
		t.Errorf("unexpected email %q", p.Contact.Email)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `name: Jane Doe
title: Backend Engineer
contact:
  email: jane@example.com
employment:
  - position: Engineer
    company: Acme
    start: "2020"
    end: Present
    duties:
      - Built things
languages:
  - name: German
    level: B2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "Jane Doe" || p.Title != "Backend Engineer" {
		t.Errorf("unexpected header %q / %q", p.Name, p.Title)
	}
	if p.Contact.Email != "jane@example.com" {
		t.Errorf("unexpected email %q", p.Contact.Email)
	}
	if len(p.Jobs) != 1 || p.Jobs[0].Company != "Acme" || len(p.Jobs[0].Duties) != 1 {
		t.Errorf("unexpected jobs %+v", p.Jobs)
	}
	if len(p.Languages) != 1 || p.Languages[0].Level != "B2" {
		t.Errorf("unexpected languages %+v", p.Languages)
	}
	if len(p.Education) != 2 {
		t.Errorf("expected default education to survive, got %d entries", len(p.Education))
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Bartłomiej Słowik", "Bartłomiej"},
		{"Cher", "Cher"},
		{"", ""},
	}
	for _, tt := range tests {
		p := &Profile{Name: tt.name}
		if got := p.FirstName(); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
