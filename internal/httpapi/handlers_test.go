package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactboard/internal/boards"
	"contactboard/internal/domain"
	"contactboard/internal/storage"
)

func setupRouter(t *testing.T) (*gin.Engine, *boards.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := boards.NewRepository(storage.NewMemoryStore())
	return NewRouter(NewHandler(repo, log), []string{"http://localhost:3000"}), repo
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var out map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr, out
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)

	rr, body := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestListBoards(t *testing.T) {
	r, _ := setupRouter(t)

	rr, body := do(t, r, http.MethodGet, "/api/boards", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, body["boards"], 2)
	assert.Equal(t, map[string]any{"boards": float64(2), "contacts": float64(3)}, body["stats"])
}

func TestCreateAndGetBoard(t *testing.T) {
	r, _ := setupRouter(t)

	rr, body := do(t, r, http.MethodPost, "/api/boards", map[string]string{"name": "  GopherCon  "})
	require.Equal(t, http.StatusCreated, rr.Code)
	board := body["board"].(map[string]any)
	assert.Equal(t, "GopherCon", board["name"])
	assert.Equal(t, []any{}, board["contacts"])

	rr, body = do(t, r, http.MethodGet, "/api/boards/"+board["id"].(string), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GopherCon", body["board"].(map[string]any)["name"])
}

func TestCreateBoard_Invalid(t *testing.T) {
	r, _ := setupRouter(t)

	rr, body := do(t, r, http.MethodPost, "/api/boards", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"name": "Board name is required"}, body["fields"])

	req := httptest.NewRequest(http.MethodPost, "/api/boards", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBoard_NotFound(t *testing.T) {
	r, _ := setupRouter(t)

	rr, body := do(t, r, http.MethodGet, "/api/boards/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "board not found: nope", body["error"])
}

func TestDeleteBoard(t *testing.T) {
	r, repo := setupRouter(t)

	rr, _ := do(t, r, http.MethodDelete, "/api/boards/1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	_, ok, err := repo.GetBoard(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Missing boards are not an error
	rr, _ = do(t, r, http.MethodDelete, "/api/boards/1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddContact(t *testing.T) {
	r, repo := setupRouter(t)

	rr, body := do(t, r, http.MethodPost, "/api/boards/2/contacts", domain.ContactFields{
		Name: "Barbara Liskov", Position: "Professor", Company: "MIT", Location: "Cambridge, USA",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "Barbara Liskov", contact["name"])
	assert.Equal(t, "", contact["interests"])

	board, _, err := repo.GetBoard(context.Background(), "2")
	require.NoError(t, err)
	assert.Len(t, board.Contacts, 2)
}

func TestAddContact_ValidationAndNotFound(t *testing.T) {
	r, repo := setupRouter(t)

	rr, body := do(t, r, http.MethodPost, "/api/boards/2/contacts", domain.ContactFields{Name: "No Details"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, body["fields"], 3)

	rr, _ = do(t, r, http.MethodPost, "/api/boards/9/contacts", domain.ContactFields{
		Name: "A", Position: "B", Company: "C", Location: "D",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Contacts)
}

func TestUpdateContact(t *testing.T) {
	r, repo := setupRouter(t)

	rr, body := do(t, r, http.MethodPatch, "/api/boards/1/contacts/c2", map[string]string{"company": "Anthropic"})
	require.Equal(t, http.StatusOK, rr.Code)
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "Anthropic", contact["company"])
	assert.Equal(t, "Jane Smith", contact["name"])

	board, _, err := repo.GetBoard(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Anthropic", board.Contacts[1].Company)
	assert.Equal(t, "Product Manager", board.Contacts[1].Position)
}

func TestUpdateContact_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	rr, _ := do(t, r, http.MethodPatch, "/api/boards/1/contacts/c2", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body := do(t, r, http.MethodPatch, "/api/boards/1/contacts/c9", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "contact not found: c9", body["error"])

	rr, _ = do(t, r, http.MethodPatch, "/api/boards/7/contacts/c1", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteContact(t *testing.T) {
	r, repo := setupRouter(t)

	rr, _ := do(t, r, http.MethodDelete, "/api/boards/2/contacts/c3", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = do(t, r, http.MethodDelete, "/api/boards/2/contacts/c3", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	board, _, err := repo.GetBoard(context.Background(), "2")
	require.NoError(t, err)
	assert.Empty(t, board.Contacts)

	rr, _ = do(t, r, http.MethodDelete, "/api/boards/7/contacts/c3", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExport(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var data domain.AppData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &data))
	assert.Equal(t, domain.SeedData(), data)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/boards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

type failingBoards struct{ Boards }

func (failingBoards) ListBoards(context.Context) ([]domain.Board, error) {
	return nil, errors.New("badger closed")
}

func TestInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := NewRouter(NewHandler(failingBoards{}, log), nil)

	rr, body := do(t, r, http.MethodGet, "/api/boards", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal error", body["error"])
}
