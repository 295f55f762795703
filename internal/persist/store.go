package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStatePath returns the session file location.
func DefaultStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "plasmazones", "session.json"), nil
}

// Store reads and writes the session document at a fixed path.
type Store struct {
	Path string
}

// Write persists the document, creating the parent directory if needed.
func (st *Store) Write(doc Document) error {
	if err := os.MkdirAll(filepath.Dir(st.Path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := os.WriteFile(st.Path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

// Read loads the document. A missing file yields an empty document and
// ok=false, not an error; a fresh install has no session yet.
func (st *Store) Read() (Document, bool, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("failed to read session state: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, false, fmt.Errorf("failed to parse session state: %w", err)
	}
	return doc, true, nil
}
