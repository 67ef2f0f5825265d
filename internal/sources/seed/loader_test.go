package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeSeed(t, `---
games:
  - 224517 # Brass: Birmingham
  - 266192
local_games:
  - name: Hanamikoji
    bgg_id: jp-1
    min_players: 2
    max_players: 2
users:
  - id: admin
    email: admin@example.com
    is_admin: true
`)

	f, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Games) != 2 || f.Games[0] != 224517 {
		t.Errorf("Games = %v", f.Games)
	}
	if len(f.LocalGames) != 1 || *f.LocalGames[0].MaxPlayers != 2 {
		t.Errorf("LocalGames = %+v", f.LocalGames)
	}
	if len(f.Users) != 1 || !f.Users[0].IsAdmin {
		t.Errorf("Users = %+v", f.Users)
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	t.Setenv("BGR_TEST_ADMIN_EMAIL", "root@example.com")
	path := writeSeed(t, `users:
  - id: root
    email: "{{ BGR_TEST_ADMIN_EMAIL }}"
    name: "{{BGR_TEST_UNSET_VARIABLE}}"
`)

	f, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.Users[0].Email; got != "root@example.com" {
		t.Errorf("Email = %q, want root@example.com", got)
	}
	if got := f.Users[0].Name; got != "" {
		t.Errorf("Name = %q, want empty", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/seed.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("gamez: [1]\n")); err == nil {
		t.Error("Parse() should reject unknown keys")
	}
	if _, err := Parse([]byte("games: [abc]\n")); err == nil {
		t.Error("Parse() should reject non-integer ids")
	}
}

func TestExpandTemplateVariables(t *testing.T) {
	env := map[string]string{"A": "1"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single template variable", "x: {{A}}", "x: 1"},
		{"spaces inside braces", "x: {{ A }}", "x: 1"},
		{"unset variable", "x: '{{B}}'", "x: ''"},
		{"no template variables", "plain text", "plain text"},
		{"not a variable name", "x: {{1A}}", "x: {{1A}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandTemplateVariables([]byte(tt.input), lookup)); got != tt.expected {
				t.Errorf("expandTemplateVariables() = %q, want %q", got, tt.expected)
			}
		})
	}
}
