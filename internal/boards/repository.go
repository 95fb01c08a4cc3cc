// Package boards owns every read and write of the boards dataset. The whole
// dataset lives in one JSON blob under a fixed key; each operation loads it,
// applies a single change, and writes it back.
package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"contactboard/internal/config"
	"contactboard/internal/domain"
	"contactboard/internal/storage"
)

// Repository is the gateway between callers and the persisted dataset. It
// keeps no state between calls, so several repositories sharing one store
// see each other's writes; concurrent writers race and the last one wins.
type Repository struct {
	store storage.Store
	key   string
	ids   IDGenerator
	log   logrus.FieldLogger
}

// Option customizes a Repository.
type Option func(*Repository)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(r *Repository) { r.key = key }
}

// WithIDGenerator overrides how new ids are produced.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Repository) { r.ids = gen }
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Repository) { r.log = logger }
}

// NewRepository creates a repository on store. A nil store means there is no
// persistent storage: Load returns the seed data and Save does nothing.
func NewRepository(store storage.Store, opts ...Option) *Repository {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	r := &Repository{
		store: store,
		key:   config.DefaultStorageKey,
		ids:   TimeOrderedIDs{},
		log:   silent,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithField("component", "repository")
	return r
}

// Load returns the persisted dataset. When nothing is stored yet, or the
// stored blob is not a valid dataset, the seed data is written and returned.
// Only a failing storage backend produces an error.
func (r *Repository) Load(ctx context.Context) (domain.AppData, error) {
	if r.store == nil {
		return domain.SeedData(), nil
	}

	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return domain.AppData{}, fmt.Errorf("failed to load data: %w", err)
	}
	if !found {
		r.log.WithField("key", r.key).Info("No stored data, seeding defaults")
		return r.seed(ctx)
	}

	data, err := decode(raw)
	if err != nil {
		r.log.WithError(err).WithField("key", r.key).Warn("Stored data is unreadable, replacing it with defaults")
		return r.seed(ctx)
	}
	return data, nil
}

// Save overwrites the stored blob with data.
func (r *Repository) Save(ctx context.Context, data domain.AppData) error {
	if r.store == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to save data: %w", err)
	}
	return nil
}

// Replace validates data and then saves it in place of the current dataset.
func (r *Repository) Replace(ctx context.Context, data domain.AppData) error {
	if err := data.Validate(); err != nil {
		return &domain.ValidationError{Fields: map[string]string{"boards": err.Error()}}
	}
	if err := r.Save(ctx, data); err != nil {
		return err
	}
	r.log.WithField("boards", len(data.Boards)).Info("Dataset replaced")
	return nil
}

// ListBoards returns every board in order.
func (r *Repository) ListBoards(ctx context.Context) ([]domain.Board, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Boards, nil
}

// Stats returns board and contact totals.
func (r *Repository) Stats(ctx context.Context) (domain.Stats, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return data.Stats(), nil
}

// GetBoard looks a board up by id. A missing board is reported through the
// boolean, not as an error.
func (r *Repository) GetBoard(ctx context.Context, id string) (domain.Board, bool, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return domain.Board{}, false, err
	}
	if i := data.FindBoard(id); i >= 0 {
		return data.Boards[i], true, nil
	}
	return domain.Board{}, false, nil
}

// CreateBoard appends a new, empty board.
func (r *Repository) CreateBoard(ctx context.Context, name string) (domain.Board, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return domain.Board{}, err
	}

	board := domain.Board{
		ID:       uniqueID(r.ids, data.HasBoard),
		Name:     name,
		Contacts: []domain.Contact{},
	}
	data.Boards = append(data.Boards, board)

	if err := r.Save(ctx, data); err != nil {
		return domain.Board{}, err
	}
	r.log.WithField("board_id", board.ID).Info("Board created")
	return board, nil
}

// DeleteBoard removes a board and its contacts. Deleting a missing board is
// a no-op.
func (r *Repository) DeleteBoard(ctx context.Context, id string) error {
	data, err := r.Load(ctx)
	if err != nil {
		return err
	}

	kept := data.Boards[:0]
	for _, b := range data.Boards {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	data.Boards = kept

	if err := r.Save(ctx, data); err != nil {
		return err
	}
	r.log.WithField("board_id", id).Info("Board deleted")
	return nil
}

// AddContact appends a contact to a board. It fails with a NotFoundError,
// without writing anything, when the board does not exist.
func (r *Repository) AddContact(ctx context.Context, boardID string, fields domain.ContactFields) (domain.Contact, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return domain.Contact{}, err
	}

	bi := data.FindBoard(boardID)
	if bi < 0 {
		return domain.Contact{}, domain.BoardNotFound(boardID)
	}
	board := &data.Boards[bi]

	contact := fields.WithID(uniqueID(r.ids, board.HasContact))
	board.Contacts = append(board.Contacts, contact)

	if err := r.Save(ctx, data); err != nil {
		return domain.Contact{}, err
	}
	r.log.WithFields(logrus.Fields{
		"board_id":   boardID,
		"contact_id": contact.ID,
	}).Info("Contact added")
	return contact, nil
}

// UpdateContact merges patch onto an existing contact.
func (r *Repository) UpdateContact(ctx context.Context, boardID, contactID string, patch domain.ContactPatch) (domain.Contact, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return domain.Contact{}, err
	}

	bi := data.FindBoard(boardID)
	if bi < 0 {
		return domain.Contact{}, domain.BoardNotFound(boardID)
	}
	board := &data.Boards[bi]

	ci := board.FindContact(contactID)
	if ci < 0 {
		return domain.Contact{}, domain.ContactNotFound(contactID)
	}
	board.Contacts[ci] = patch.Apply(board.Contacts[ci])

	if err := r.Save(ctx, data); err != nil {
		return domain.Contact{}, err
	}
	r.log.WithFields(logrus.Fields{
		"board_id":   boardID,
		"contact_id": contactID,
	}).Info("Contact updated")
	return board.Contacts[ci], nil
}

// DeleteContact removes a contact from a board. The board must exist; a
// missing contact is a no-op.
func (r *Repository) DeleteContact(ctx context.Context, boardID, contactID string) error {
	data, err := r.Load(ctx)
	if err != nil {
		return err
	}

	bi := data.FindBoard(boardID)
	if bi < 0 {
		return domain.BoardNotFound(boardID)
	}
	board := &data.Boards[bi]

	kept := board.Contacts[:0]
	for _, c := range board.Contacts {
		if c.ID != contactID {
			kept = append(kept, c)
		}
	}
	board.Contacts = kept

	if err := r.Save(ctx, data); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"board_id":   boardID,
		"contact_id": contactID,
	}).Info("Contact deleted")
	return nil
}

func (r *Repository) seed(ctx context.Context) (domain.AppData, error) {
	data := domain.SeedData()
	if err := r.Save(ctx, data); err != nil {
		return domain.AppData{}, err
	}
	return data, nil
}

func decode(raw []byte) (domain.AppData, error) {
	var data domain.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.AppData{}, fmt.Errorf("failed to decode data: %w", err)
	}
	if data.Boards == nil {
		// "null", "{}" and friends are not a dataset
		return domain.AppData{}, fmt.Errorf("data has no boards list")
	}
	if err := data.Validate(); err != nil {
		return domain.AppData{}, err
	}
	return data, nil
}
