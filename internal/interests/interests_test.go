package interests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestLoad_SectionOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_interests.md")
	content := `# About Me

Some intro text.

## Interests

- Distributed systems
- Trail running

## Reading List

- Some book
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"Distributed systems", "Trail running"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), entries)
	}
	for i, e := range entries {
		if e != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], e)
		}
	}
}

func TestAppend_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_interests.md")
	if err := Append(path, "Open source"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0] != "Open source" {
		t.Errorf("expected single entry, got %v", entries)
	}
}

func TestAppend_InsertsBeforeNextSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_interests.md")
	content := `## Interests

- Chess

## Notes

Keep this section last.
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Append(path, "Sailing"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[1] != "Sailing" {
		t.Errorf("expected appended entry inside section, got %v", entries)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Keep this section last.") {
		t.Error("trailing section was lost")
	}
	if strings.Index(string(data), "- Sailing") > strings.Index(string(data), "## Notes") {
		t.Error("entry landed after the next section header")
	}
}

func TestAppend_EmptyEntryIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_interests.md")
	if err := Append(path, "   "); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty entry should not create the file")
	}
}
