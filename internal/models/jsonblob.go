package models

import "encoding/json"

// The jsonb columns (preferences, amenities, images, contact_info) carry
// payloads written by several generations of clients. Decoding is
// tolerant: anything malformed or of the wrong shape falls back to the
// zero default instead of failing the request.

type Preferences struct {
	Smoking   *bool    `json:"smoking,omitempty"`
	Pets      *bool    `json:"pets,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	MaxBudget *float64 `json:"maxBudget,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func ParsePreferences(raw []byte) Preferences {
	var prefs Preferences
	if len(raw) == 0 {
		return prefs
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return Preferences{}
	}
	return prefs
}

func ParseContactInfo(raw []byte) ContactInfo {
	var info ContactInfo
	if len(raw) == 0 {
		return info
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return ContactInfo{}
	}
	return info
}

// ParseStringList decodes the amenities/images columns. Non-array or
// malformed payloads decode to an empty list.
func ParseStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	items := []string{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	if items == nil {
		return []string{}
	}
	return items
}
