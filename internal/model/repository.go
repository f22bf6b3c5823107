package model

import (
	"encoding/json"
	"fmt"
)

// ActiveRepository is the single checkout write operations act on.
// An empty Path means there is no active repository; Owner and Name are empty
// when they could not be parsed from URL.
type ActiveRepository struct {
	Path  string `json:"path"`
	URL   string `json:"url"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// IsActive reports whether a checkout path is set
func (r *ActiveRepository) IsActive() bool {
	return r != nil && r.Path != ""
}

// HasCoordinates reports whether both owner and name are known
func (r *ActiveRepository) HasCoordinates() bool {
	return r != nil && r.Owner != "" && r.Name != ""
}

// FullName returns "owner/name"
func (r *ActiveRepository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

type activeRepositoryJSON struct {
	Path  *string `json:"path"`
	URL   *string `json:"url"`
	Owner *string `json:"owner"`
	Name  *string `json:"name"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// MarshalJSON writes empty fields as null
func (r ActiveRepository) MarshalJSON() ([]byte, error) {
	return json.Marshal(activeRepositoryJSON{
		Path:  nullable(r.Path),
		URL:   nullable(r.URL),
		Owner: nullable(r.Owner),
		Name:  nullable(r.Name),
	})
}

// UnmarshalJSON reads null fields as empty
func (r *ActiveRepository) UnmarshalJSON(data []byte) error {
	var aux activeRepositoryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = ActiveRepository{
		Path:  deref(aux.Path),
		URL:   deref(aux.URL),
		Owner: deref(aux.Owner),
		Name:  deref(aux.Name),
	}

	return nil
}
