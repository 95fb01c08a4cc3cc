package domain

import (
	"encoding/json"
	"fmt"
)

// Board is a named collection of contacts.
type Board struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Contacts []Contact `json:"contacts"`
}

// MarshalJSON always encodes Contacts as an array.
func (b Board) MarshalJSON() ([]byte, error) {
	type plain Board
	if b.Contacts == nil {
		b.Contacts = []Contact{}
	}
	return json.Marshal(plain(b))
}

// FindContact returns the index of the contact with the given id, or -1.
func (b Board) FindContact(id string) int {
	for i, c := range b.Contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// HasContact reports whether a contact with the given id exists in the board.
func (b Board) HasContact(id string) bool {
	return b.FindContact(id) >= 0
}

// AppData is the root object persisted as one blob.
type AppData struct {
	Boards []Board `json:"boards" yaml:"boards"`
}

// MarshalJSON always encodes Boards as an array.
func (d AppData) MarshalJSON() ([]byte, error) {
	type plain AppData
	if d.Boards == nil {
		d.Boards = []Board{}
	}
	return json.Marshal(plain(d))
}

// Stats holds the totals shown on the boards overview.
type Stats struct {
	Boards   int `json:"boards"`
	Contacts int `json:"contacts"`
}

// FindBoard returns the index of the board with the given id, or -1.
func (d AppData) FindBoard(id string) int {
	for i, b := range d.Boards {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// HasBoard reports whether a board with the given id exists.
func (d AppData) HasBoard(id string) bool {
	return d.FindBoard(id) >= 0
}

// Stats counts boards and contacts.
func (d AppData) Stats() Stats {
	s := Stats{Boards: len(d.Boards)}
	for _, b := range d.Boards {
		s.Contacts += len(b.Contacts)
	}
	return s
}

// Clone returns a deep copy that shares no slices with d.
func (d AppData) Clone() AppData {
	out := AppData{Boards: make([]Board, len(d.Boards))}
	for i, b := range d.Boards {
		out.Boards[i] = Board{
			ID:       b.ID,
			Name:     b.Name,
			Contacts: append([]Contact{}, b.Contacts...),
		}
	}
	return out
}

// Validate checks the structural invariants of a persisted dataset: every
// board and contact carries an id, board ids are unique across the dataset
// and contact ids are unique within their board.
func (d AppData) Validate() error {
	boardIDs := make(map[string]struct{}, len(d.Boards))
	for i, b := range d.Boards {
		if b.ID == "" {
			return fmt.Errorf("board at index %d has no id", i)
		}
		if _, dup := boardIDs[b.ID]; dup {
			return fmt.Errorf("duplicate board id %q", b.ID)
		}
		boardIDs[b.ID] = struct{}{}

		contactIDs := make(map[string]struct{}, len(b.Contacts))
		for j, c := range b.Contacts {
			if c.ID == "" {
				return fmt.Errorf("contact at index %d of board %q has no id", j, b.ID)
			}
			if _, dup := contactIDs[c.ID]; dup {
				return fmt.Errorf("duplicate contact id %q in board %q", c.ID, b.ID)
			}
			contactIDs[c.ID] = struct{}{}
		}
	}
	return nil
}
