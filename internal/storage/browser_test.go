package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/require"
)

func TestBrowserStore_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no Chromium executable available")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!doctype html><title>boards</title>"))
	}))
	defer srv.Close()

	store, err := OpenBrowserStore(context.Background(), srv.URL, 30*time.Second, testLogger())
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
}
