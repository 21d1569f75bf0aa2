package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second, zerolog.Nop())
}

func TestListArticles_SendsAuthAndQuery(t *testing.T) {
	var gotAuth, gotStatus string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStatus = r.URL.Query().Get("status")
		w.Write([]byte(`{"data": [{"id": 1, "title": "One"}], "current_page": 1, "last_page": 1, "per_page": 24, "total": 1}`))
	}))

	page, err := client.ListArticles(context.Background(), models.DefaultQuery(), false)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotStatus != models.StatusPublished {
		t.Errorf("status param = %q, want %q", gotStatus, models.StatusPublished)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 1 {
		t.Errorf("items = %+v, want one article with id 1", page.Items)
	}
}

func TestHardDelete_FallsBackOnNotFound(t *testing.T) {
	var calls []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/articles/9/force" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "route not found"}`))
			return
		}
		w.Write([]byte(`{"message": "deleted"}`))
	}))

	if err := client.HardDeleteArticle(context.Background(), 9); err != nil {
		t.Fatalf("HardDeleteArticle failed: %v", err)
	}

	want := []string{"DELETE /articles/9/force", "POST /articles/9/force-delete"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestHardDelete_NoFallbackOnOtherErrors(t *testing.T) {
	var calls int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "insufficient permissions"}`))
	}))

	err := client.HardDeleteArticle(context.Background(), 9)
	if err == nil {
		t.Fatal("HardDeleteArticle succeeded, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no fallback on non-404)", calls)
	}
}

func TestErrors_CarryServerMessage(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "article is locked"}`))
	}))

	err := client.SoftDeleteArticle(context.Background(), 1)
	if err == nil {
		t.Fatal("SoftDeleteArticle succeeded, want error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an APIError", err)
	}
	if apiErr.Message != "article is locked" {
		t.Errorf("message = %q, want server-provided text", apiErr.Message)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.Status)
	}
}

func TestConnection_ChecksCurrentUser(t *testing.T) {
	var got string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.Write([]byte(`{"id": 1, "name": "admin"}`))
	}))

	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}
	if got != "/me" {
		t.Errorf("path = %q, want /me", got)
	}

	denied := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid token"}`))
	}))
	if err := denied.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection succeeded with a rejected token")
	}
}

func TestRestoreArticle_HitsRestoreRoute(t *testing.T) {
	var got string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method + " " + r.URL.Path
		w.Write([]byte(`{}`))
	}))

	if err := client.RestoreArticle(context.Background(), 5); err != nil {
		t.Fatalf("RestoreArticle failed: %v", err)
	}
	if got != "POST /articles/5/restore" {
		t.Errorf("request = %q, want POST /articles/5/restore", got)
	}
}
