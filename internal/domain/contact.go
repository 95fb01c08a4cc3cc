package domain

import "strings"

// Contact is a professional-network entry owned by exactly one Board.
type Contact struct {
	// ID is unique within the owning board's contact list.
	ID string `json:"id"`

	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Location string `json:"location"`

	// Interests is optional free text.
	Interests string `json:"interests"`
}

// ContactFields is a Contact without its identity, as submitted by a caller.
type ContactFields struct {
	Name      string `json:"name" yaml:"name"`
	Position  string `json:"position" yaml:"position"`
	Company   string `json:"company" yaml:"company"`
	Location  string `json:"location" yaml:"location"`
	Interests string `json:"interests" yaml:"interests"`
}

// ContactPatch is a partial update. Nil fields are left unchanged.
type ContactPatch struct {
	Name      *string `json:"name,omitempty"`
	Position  *string `json:"position,omitempty"`
	Company   *string `json:"company,omitempty"`
	Location  *string `json:"location,omitempty"`
	Interests *string `json:"interests,omitempty"`
}

// Fields returns the contact without its ID.
func (c Contact) Fields() ContactFields {
	return ContactFields{
		Name:      c.Name,
		Position:  c.Position,
		Company:   c.Company,
		Location:  c.Location,
		Interests: c.Interests,
	}
}

// WithID builds a Contact from the fields.
func (f ContactFields) WithID(id string) Contact {
	return Contact{
		ID:        id,
		Name:      f.Name,
		Position:  f.Position,
		Company:   f.Company,
		Location:  f.Location,
		Interests: f.Interests,
	}
}

// Normalize trims surrounding whitespace from every field.
func (f ContactFields) Normalize() ContactFields {
	return ContactFields{
		Name:      strings.TrimSpace(f.Name),
		Position:  strings.TrimSpace(f.Position),
		Company:   strings.TrimSpace(f.Company),
		Location:  strings.TrimSpace(f.Location),
		Interests: strings.TrimSpace(f.Interests),
	}
}

// Patch turns a full record into a patch that replaces every field.
func (f ContactFields) Patch() ContactPatch {
	return ContactPatch{
		Name:      &f.Name,
		Position:  &f.Position,
		Company:   &f.Company,
		Location:  &f.Location,
		Interests: &f.Interests,
	}
}

// Empty reports whether the patch changes nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Position == nil && p.Company == nil &&
		p.Location == nil && p.Interests == nil
}

// Apply merges the patch onto c and returns the result. The ID never changes.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Interests != nil {
		c.Interests = *p.Interests
	}
	return c
}

// Normalize trims whitespace from every supplied field.
func (p ContactPatch) Normalize() ContactPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	return ContactPatch{
		Name:      trim(p.Name),
		Position:  trim(p.Position),
		Company:   trim(p.Company),
		Location:  trim(p.Location),
		Interests: trim(p.Interests),
	}
}
