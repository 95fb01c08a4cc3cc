package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"contactboard/internal/domain"
)

// Boards is the subset of the repository the bot needs.
type Boards interface {
	ListBoards(ctx context.Context) ([]domain.Board, error)
	GetBoard(ctx context.Context, id string) (domain.Board, bool, error)
	CreateBoard(ctx context.Context, name string) (domain.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	AddContact(ctx context.Context, boardID string, fields domain.ContactFields) (domain.Contact, error)
	UpdateContact(ctx context.Context, boardID, contactID string, patch domain.ContactPatch) (domain.Contact, error)
	DeleteContact(ctx context.Context, boardID, contactID string) error
	Stats(ctx context.Context) (domain.Stats, error)
}

const helpText = `Commands:
/boards - list your boards
/board <id> - show a board and its contacts
/newboard <name> - create a board
/delboard <id> - delete a board
/addcontact <board id> name | position | company | location [| interests]
/editcontact <board id> <contact id> field=value; field=value
/delcontact <board id> <contact id>`

const welcomeText = "Welcome to Contact Boards! Keep the people you meet organised in boards.\n\n" + helpText

// Commands turns chat commands into repository calls and renders the replies.
// It knows nothing about Telegram so it can be tested directly.
type Commands struct {
	boards Boards
	log    logrus.FieldLogger
}

// NewCommands creates the command set.
func NewCommands(boards Boards, logger logrus.FieldLogger) *Commands {
	return &Commands{
		boards: boards,
		log:    logger.WithField("component", "bot_commands"),
	}
}

// Dispatch runs the command in text and returns the reply. Unknown input gets
// the help text.
func (c *Commands) Dispatch(ctx context.Context, text string) string {
	name, args := splitCommand(text)
	log := c.log.WithField("command", name)

	var (
		reply string
		err   error
	)
	switch name {
	case "/start":
		return welcomeText
	case "/help":
		return helpText
	case "/boards":
		reply, err = c.listBoards(ctx)
	case "/board":
		reply, err = c.showBoard(ctx, args)
	case "/newboard":
		reply, err = c.newBoard(ctx, args)
	case "/delboard":
		reply, err = c.deleteBoard(ctx, args)
	case "/addcontact":
		reply, err = c.addContact(ctx, args)
	case "/editcontact":
		reply, err = c.editContact(ctx, args)
	case "/delcontact":
		reply, err = c.deleteContact(ctx, args)
	default:
		return "Unknown command.\n\n" + helpText
	}

	if err != nil {
		return c.errorReply(log, err)
	}
	return reply
}

func (c *Commands) errorReply(log logrus.FieldLogger, err error) string {
	var usage usageError
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &usage):
		return "Usage: " + string(usage)
	case errors.Is(err, domain.ErrNotFound):
		log.WithError(err).Debug("Command referenced a missing item")
		return capitalize(err.Error()) + ". Use /boards to see what exists."
	case errors.As(err, &invalid):
		return capitalize(invalid.Error())
	default:
		log.WithError(err).Error("Command failed")
		return "Something went wrong, please try again."
	}
}

// usageError carries the usage line of a command called with bad arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func (c *Commands) listBoards(ctx context.Context) (string, error) {
	boards, err := c.boards.ListBoards(ctx)
	if err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return "No boards yet. Create one with /newboard <name>.", nil
	}
	stats, err := c.boards.Stats(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d %s, %d %s\n", stats.Boards, plural(stats.Boards, "board"), stats.Contacts, plural(stats.Contacts, "contact"))
	for _, board := range boards {
		fmt.Fprintf(&b, "\n• %s (%d %s)\n  id: %s", board.Name, len(board.Contacts), plural(len(board.Contacts), "contact"), board.ID)
	}
	return b.String(), nil
}

func (c *Commands) showBoard(ctx context.Context, args string) (string, error) {
	id := strings.TrimSpace(args)
	if id == "" {
		return "", usageError("/board <id>")
	}
	board, ok, err := c.boards.GetBoard(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.BoardNotFound(id)
	}
	return renderBoard(board), nil
}

func (c *Commands) newBoard(ctx context.Context, args string) (string, error) {
	name := strings.TrimSpace(args)
	if err := domain.ValidateBoardName(name); err != nil {
		return "", usageError("/newboard <name>")
	}
	board, err := c.boards.CreateBoard(ctx, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created board %q (id: %s).", board.Name, board.ID), nil
}

func (c *Commands) deleteBoard(ctx context.Context, args string) (string, error) {
	id := strings.TrimSpace(args)
	if id == "" {
		return "", usageError("/delboard <id>")
	}
	if err := c.boards.DeleteBoard(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Board %s deleted.", id), nil
}

func (c *Commands) addContact(ctx context.Context, args string) (string, error) {
	const usage = usageError("/addcontact <board id> name | position | company | location [| interests]")

	boardID, rest := splitFirst(args)
	if boardID == "" || rest == "" {
		return "", usage
	}
	fields, err := parseContactFields(rest)
	if err != nil {
		return "", usage
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return "", err
	}

	contact, err := c.boards.AddContact(ctx, boardID, fields)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %s (id: %s).", contact.Name, contact.ID), nil
}

func (c *Commands) editContact(ctx context.Context, args string) (string, error) {
	const usage = usageError("/editcontact <board id> <contact id> field=value; field=value")

	boardID, rest := splitFirst(args)
	contactID, assignments := splitFirst(rest)
	if boardID == "" || contactID == "" || assignments == "" {
		return "", usage
	}
	patch, err := parseContactPatch(assignments)
	if err != nil {
		return "", usageError(string(usage) + "\n" + err.Error())
	}
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return "", err
	}

	contact, err := c.boards.UpdateContact(ctx, boardID, contactID, patch)
	if err != nil {
		return "", err
	}
	return "Updated:\n" + renderContact(contact), nil
}

func (c *Commands) deleteContact(ctx context.Context, args string) (string, error) {
	boardID, rest := splitFirst(args)
	contactID := strings.TrimSpace(rest)
	if boardID == "" || contactID == "" {
		return "", usageError("/delcontact <board id> <contact id>")
	}
	if err := c.boards.DeleteContact(ctx, boardID, contactID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Contact %s removed from board %s.", contactID, boardID), nil
}

// splitCommand separates "/cmd@BotName args" into "/cmd" and "args".
func splitCommand(text string) (string, string) {
	name, args := splitFirst(text)
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), args
}

// splitFirst returns the first whitespace-separated word and the trimmed rest.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func parseContactFields(s string) (domain.ContactFields, error) {
	parts := strings.Split(s, "|")
	if len(parts) < 4 || len(parts) > 5 {
		return domain.ContactFields{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(parts))
	}
	f := domain.ContactFields{
		Name:     parts[0],
		Position: parts[1],
		Company:  parts[2],
		Location: parts[3],
	}
	if len(parts) == 5 {
		f.Interests = parts[4]
	}
	return f, nil
}

func parseContactPatch(s string) (domain.ContactPatch, error) {
	var p domain.ContactPatch
	for _, assignment := range strings.Split(s, ";") {
		if strings.TrimSpace(assignment) == "" {
			continue
		}
		key, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return domain.ContactPatch{}, fmt.Errorf("%q is not field=value", strings.TrimSpace(assignment))
		}
		v := value
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			p.Name = &v
		case "position":
			p.Position = &v
		case "company":
			p.Company = &v
		case "location":
			p.Location = &v
		case "interests":
			p.Interests = &v
		default:
			return domain.ContactPatch{}, fmt.Errorf("unknown field %q", strings.TrimSpace(key))
		}
	}
	if p.Empty() {
		return domain.ContactPatch{}, errors.New("nothing to change")
	}
	return p, nil
}

func renderBoard(board domain.Board) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (id: %s)\n%d %s", board.Name, board.ID, len(board.Contacts), plural(len(board.Contacts), "contact"))
	for _, contact := range board.Contacts {
		b.WriteString("\n\n")
		b.WriteString(renderContact(contact))
	}
	return b.String()
}

func renderContact(c domain.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n%s, %s\nid: %s", c.Name, c.Position, c.Company, c.Location, c.ID)
	if c.Interests != "" {
		fmt.Fprintf(&b, "\nInterests: %s", c.Interests)
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
