package domain

import "strings"

// Validate reports every required field that is blank. Interests is optional.
func (f ContactFields) Validate() error {
	problems := map[string]string{}
	required(problems, "name", "Name", f.Name)
	required(problems, "position", "Position", f.Position)
	required(problems, "company", "Company", f.Company)
	required(problems, "location", "Location", f.Location)
	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// Validate rejects supplied required fields that are blank. Fields left nil
// are not checked.
func (p ContactPatch) Validate() error {
	problems := map[string]string{}
	if p.Name != nil {
		required(problems, "name", "Name", *p.Name)
	}
	if p.Position != nil {
		required(problems, "position", "Position", *p.Position)
	}
	if p.Company != nil {
		required(problems, "company", "Company", *p.Company)
	}
	if p.Location != nil {
		required(problems, "location", "Location", *p.Location)
	}
	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// ValidateBoardName rejects blank board names.
func ValidateBoardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Fields: map[string]string{"name": "Board name is required"}}
	}
	return nil
}

func required(problems map[string]string, key, label, value string) {
	if strings.TrimSpace(value) == "" {
		problems[key] = label + " is required"
	}
}
