// internal/models/base.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a JSONB column holding a list of strings (e.g. the roles a
// tryout is recruiting for, or the games a player competes in).
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the slice.
func (s *StringSlice) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("StringSlice: expected []byte or string, got %T", src)
	}
}

// SocialLinks is the JSONB column for a profile's social media handles.
type SocialLinks struct {
	Twitter   string `json:"twitter"`
	Twitch    string `json:"twitch"`
	YouTube   string `json:"youtube"`
	Instagram string `json:"instagram"`
	Discord   string `json:"discord"`
}

func (sl SocialLinks) Value() (driver.Value, error) {
	return json.Marshal(sl)
}

// Scan unmarshals JSONB bytes into the struct.
func (sl *SocialLinks) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, sl)
	case string:
		return json.Unmarshal([]byte(v), sl)
	default:
		return fmt.Errorf("SocialLinks: expected []byte or string, got %T", src)
	}
}
