package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UpdateBuilder assembles the SET clause for partial updates: only the
// columns the request actually supplied are written.
type UpdateBuilder struct {
	assignments []string
	args        []interface{}
}

func (b *UpdateBuilder) Set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.assignments = append(b.assignments, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *UpdateBuilder) Empty() bool {
	return len(b.assignments) == 0
}

// Clause renders the SET clause and returns the args with the row id
// appended as the final placeholder for the WHERE clause.
func (b *UpdateBuilder) Clause(id string) (string, []interface{}) {
	args := append(b.args, id)
	return strings.Join(b.assignments, ", "), args
}

// CleanStringList trims, deduplicates and bounds a client-supplied list
// (amenities, image URLs) before it is stored as jsonb.
func CleanStringList(items []string, max int) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		value := strings.TrimSpace(item)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
		if len(cleaned) >= max {
			break
		}
	}
	return cleaned
}

func MarshalStringList(items []string, max int) []byte {
	cleaned := CleanStringList(items, max)
	raw, _ := json.Marshal(cleaned)
	return raw
}

func ValidAnnouncementCategory(category string) bool {
	switch category {
	case "roommate", "study_group", "event", "marketplace", "other":
		return true
	}
	return false
}
