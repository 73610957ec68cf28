// Package interests reads and maintains the operator's interests file, a
// small Markdown document with an "## Interests" section of bullet points.
// Interests feed conversation starters only when a matching accepted fact
// confirms the other side shares them.
package interests

import (
	"fmt"
	"os"
	"strings"
)

const sectionHeader = "## Interests"

// Load returns the bullet entries under the "## Interests" section of the
// file at path. A missing file is not an error; it just means no interests
// are configured.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read interests file: %w", err)
	}

	var entries []string
	inSection := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			inSection = trimmed == sectionHeader
			continue
		}
		if !inSection {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") {
			entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
			if entry != "" {
				entries = append(entries, entry)
			}
		}
	}
	return entries, nil
}

// Append adds one bullet to the "## Interests" section, creating the file
// or the section if needed. Existing content and other sections are kept
// untouched. Empty input is a no-op.
func Append(path, entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}
	bullet := "- " + entry

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read interests file: %w", err)
		}
		content := sectionHeader + "\n\n" + bullet + "\n"
		return os.WriteFile(path, []byte(content), 0644)
	}

	content := string(data)
	idx := strings.Index(content, sectionHeader)
	if idx < 0 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\n" + sectionHeader + "\n\n" + bullet + "\n"
		return os.WriteFile(path, []byte(content), 0644)
	}

	// Insert before the next section header, or at the end of the file.
	rest := content[idx+len(sectionHeader):]
	next := strings.Index(rest, "\n## ")
	if next < 0 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += bullet + "\n"
		return os.WriteFile(path, []byte(content), 0644)
	}

	insertAt := idx + len(sectionHeader) + next
	content = content[:insertAt] + "\n" + bullet + content[insertAt:]
	return os.WriteFile(path, []byte(content), 0644)
}
