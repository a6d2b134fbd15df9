package model

import (
	"encoding/json"
	"strings"
)

// Person is one speaker or coordinator entry as submitted inside an event
// payload: {"name": ..., "dept": ..., "role": ..., "about": ..., "image": ...}.
type Person struct {
	Name  string `json:"name"`
	Dept  string `json:"dept,omitempty"`
	Role  string `json:"role,omitempty"`
	About string `json:"about,omitempty"`
	Image string `json:"image,omitempty"`
}

// ParsePeople decodes a Speakers/Coordinators payload in any of the three
// accepted shapes: a JSON array of person objects, a bare name, or the
// legacy comma-separated name list.  An empty payload yields nil.
func ParsePeople(raw string) []Person {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var people []Person
	if err := json.Unmarshal([]byte(raw), &people); err == nil {
		return people
	}
	if !strings.Contains(raw, ",") {
		return []Person{{Name: raw}}
	}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			people = append(people, Person{Name: part})
		}
	}
	return people
}

// MarshalPeople serializes entries back into the stored cell form.
func MarshalPeople(people []Person) string {
	b, err := json.Marshal(people)
	if err != nil {
		return ""
	}
	return string(b)
}
