package model

import "strings"

// DefaultListID is the distinguished list that always exists and can
// never be deleted.
const DefaultListID = "myfollow"

// MetadataCollection is the reserved collection holding one record per
// list id.
const MetadataCollection = "_lists"

// List is a named, independently stored collection of Accounts.
type List struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreatedAt    string `json:"createdAt"`
	AccountCount int    `json:"accountCount"` // derived at load time, never stored
}

// ListFromRecord normalizes a metadata record into a List. The account
// count is filled in by the registry from the live collection.
func ListFromRecord(id string, bag FieldBag) (List, bool) {
	if id == "" || bag == nil {
		return List{}, false
	}
	return List{
		ID:          id,
		Name:        stringField(bag, "name", "Name"),
		Description: stringField(bag, "description", "Description"),
		CreatedAt:   stringField(bag, "createdAt", "CreatedAt"),
	}, true
}

// Record converts the list metadata back into a store field bag.
func (l List) Record() FieldBag {
	return FieldBag{
		"name":        l.Name,
		"description": l.Description,
		"createdAt":   l.CreatedAt,
	}
}

// IsDefault reports whether this is the protected default list.
func (l List) IsDefault() bool {
	return l.ID == DefaultListID
}

// SlugFromName derives a list id from a user-supplied name: lowercased,
// runs of non-alphanumeric characters collapsed to a single underscore,
// leading and trailing underscores trimmed.
func SlugFromName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
