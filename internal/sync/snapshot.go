package sync

import (
	"encoding/json"
	"fmt"
	"sort"

	"hermes/internal/store"
)

// Snapshot is the full mirrored state: collection name to documents.
type Snapshot map[string][]store.Document

// Serialize renders a snapshot deterministically: object keys sorted
// (encoding/json sorts map keys), documents ordered by id, two-space
// indent. Change detection compares these strings wholesale.
func Serialize(s Snapshot) (string, error) {
	for _, docs := range s {
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing snapshot: %w", err)
	}
	return string(data), nil
}

// Parse decodes a serialized snapshot.
func Parse(content string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return s, nil
}

// machineGeneratedID reports whether an id looks store-generated (UUIDs
// are 36 characters, Firestore-style ids 20). Short ids come from
// hand-edited mirror files and get a fresh generated id on import.
func machineGeneratedID(id string) bool {
	return len(id) >= 12
}
