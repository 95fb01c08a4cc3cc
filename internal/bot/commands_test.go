package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactboard/internal/boards"
	"contactboard/internal/domain"
	"contactboard/internal/storage"
)

type counterIDs struct{ n int }

func (g *counterIDs) New() string {
	g.n++
	return fmt.Sprintf("n%d", g.n)
}

func setupCommands(t *testing.T) (*Commands, *boards.Repository) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := boards.NewRepository(storage.NewMemoryStore(), boards.WithIDGenerator(&counterIDs{}))
	return NewCommands(repo, log), repo
}

func TestDispatch_StartAndHelp(t *testing.T) {
	cmds, _ := setupCommands(t)
	ctx := context.Background()

	assert.Contains(t, cmds.Dispatch(ctx, "/start"), "Welcome to Contact Boards!")
	assert.Equal(t, helpText, cmds.Dispatch(ctx, "/help"))
	assert.Equal(t, helpText, cmds.Dispatch(ctx, "/help@ContactBoardsBot"))
	assert.Contains(t, cmds.Dispatch(ctx, "/frobnicate"), "Unknown command.")
}

func TestDispatch_Boards(t *testing.T) {
	cmds, _ := setupCommands(t)

	reply := cmds.Dispatch(context.Background(), "/boards")

	assert.Contains(t, reply, "2 boards, 3 contacts")
	assert.Contains(t, reply, "• Tech Conference 2025 (2 contacts)\n  id: 1")
	assert.Contains(t, reply, "• Startup Meetup (1 contact)\n  id: 2")
}

func TestDispatch_BoardsEmpty(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()
	require.NoError(t, repo.Replace(ctx, domain.AppData{Boards: []domain.Board{}}))

	assert.Equal(t, "No boards yet. Create one with /newboard <name>.", cmds.Dispatch(ctx, "/boards"))
}

func TestDispatch_ShowBoard(t *testing.T) {
	cmds, _ := setupCommands(t)
	ctx := context.Background()

	reply := cmds.Dispatch(ctx, "/board 2")
	assert.Equal(t, "Startup Meetup (id: 2)\n1 contact\n\nAlex Brown - CEO\nTechNova, Berlin, Germany\nid: c3\nInterests: Entrepreneurship, Networking", reply)

	assert.Equal(t, "Board not found: 9. Use /boards to see what exists.", cmds.Dispatch(ctx, "/board 9"))
	assert.Equal(t, "Usage: /board <id>", cmds.Dispatch(ctx, "/board"))
}

func TestDispatch_NewAndDeleteBoard(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()

	assert.Equal(t, `Created board "Go Meetup Oslo" (id: n1).`, cmds.Dispatch(ctx, "/newboard   Go Meetup Oslo  "))

	board, ok, err := repo.GetBoard(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Go Meetup Oslo", board.Name)

	assert.Equal(t, "Usage: /newboard <name>", cmds.Dispatch(ctx, "/newboard   "))

	assert.Equal(t, "Board n1 deleted.", cmds.Dispatch(ctx, "/delboard n1"))
	_, ok, err = repo.GetBoard(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "Usage: /delboard <id>", cmds.Dispatch(ctx, "/delboard"))
}

func TestDispatch_AddContact(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()

	reply := cmds.Dispatch(ctx, "/addcontact 2 Grace Hopper | Rear Admiral | US Navy | Arlington, USA | COBOL, Compilers")
	assert.Equal(t, "Added Grace Hopper (id: n1).", reply)

	board, _, err := repo.GetBoard(ctx, "2")
	require.NoError(t, err)
	require.Len(t, board.Contacts, 2)
	assert.Equal(t, domain.Contact{
		ID:        "n1",
		Name:      "Grace Hopper",
		Position:  "Rear Admiral",
		Company:   "US Navy",
		Location:  "Arlington, USA",
		Interests: "COBOL, Compilers",
	}, board.Contacts[1])

	// Interests is optional
	assert.Equal(t, "Added Ada (id: n2).", cmds.Dispatch(ctx, "/addcontact 2 Ada | Analyst | Engines Ltd | London"))
}

func TestDispatch_AddContactRejectsBadInput(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()

	assert.Contains(t, cmds.Dispatch(ctx, "/addcontact 2 only | three | parts"), "Usage: /addcontact")
	assert.Contains(t, cmds.Dispatch(ctx, "/addcontact"), "Usage: /addcontact")
	assert.Equal(t, "Invalid input: Company is required", cmds.Dispatch(ctx, "/addcontact 2 Ada | Analyst |   | London"))
	assert.Equal(t, "Board not found: 7. Use /boards to see what exists.", cmds.Dispatch(ctx, "/addcontact 7 Ada | Analyst | X | London"))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Contacts, "rejected input must not be stored")
}

func TestDispatch_EditContact(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()

	reply := cmds.Dispatch(ctx, "/editcontact 1 c1 position = Staff Engineer; interests=")
	assert.Equal(t, "Updated:\nJohn Doe - Staff Engineer\nOpenAI, San Francisco, USA\nid: c1", reply)

	board, _, err := repo.GetBoard(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", board.Contacts[0].Position)
	assert.Equal(t, "", board.Contacts[0].Interests)
	assert.Equal(t, "John Doe", board.Contacts[0].Name)
}

func TestDispatch_EditContactErrors(t *testing.T) {
	cmds, _ := setupCommands(t)
	ctx := context.Background()

	assert.Contains(t, cmds.Dispatch(ctx, "/editcontact 1 c1"), "Usage: /editcontact")
	assert.Contains(t, cmds.Dispatch(ctx, "/editcontact 1 c1 age=40"), `unknown field "age"`)
	assert.Contains(t, cmds.Dispatch(ctx, "/editcontact 1 c1 name"), `"name" is not field=value`)
	assert.Equal(t, "Invalid input: Name is required", cmds.Dispatch(ctx, "/editcontact 1 c1 name=  "))
	assert.Equal(t, "Contact not found: c3. Use /boards to see what exists.", cmds.Dispatch(ctx, "/editcontact 1 c3 name=X"))
	assert.Equal(t, "Board not found: 5. Use /boards to see what exists.", cmds.Dispatch(ctx, "/editcontact 5 c1 name=X"))
}

func TestDispatch_DeleteContact(t *testing.T) {
	cmds, repo := setupCommands(t)
	ctx := context.Background()

	assert.Equal(t, "Contact c1 removed from board 1.", cmds.Dispatch(ctx, "/delcontact 1 c1"))
	assert.Equal(t, "Contact c1 removed from board 1.", cmds.Dispatch(ctx, "/delcontact 1 c1"), "repeat delete is a no-op")

	board, _, err := repo.GetBoard(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, board.Contacts, 1)

	assert.Equal(t, "Board not found: 8. Use /boards to see what exists.", cmds.Dispatch(ctx, "/delcontact 8 c1"))
	assert.Equal(t, "Usage: /delcontact <board id> <contact id>", cmds.Dispatch(ctx, "/delcontact 1"))
}

type brokenBoards struct{ Boards }

func (brokenBoards) ListBoards(context.Context) ([]domain.Board, error) {
	return nil, errors.New("redis unavailable")
}

func TestDispatch_BackendFailure(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cmds := NewCommands(brokenBoards{}, log)

	assert.Equal(t, "Something went wrong, please try again.", cmds.Dispatch(context.Background(), "/boards"))
}

func TestSplitCommand(t *testing.T) {
	name, args := splitCommand("  /Board@MyBot   42  ")
	assert.Equal(t, "/board", name)
	assert.Equal(t, "42", args)
}
