package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"petcare-ai/internal/models"
	"petcare-ai/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGitHubPublisher_Publish(t *testing.T) {
	var put map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"default_branch": "master"})
	})
	mux.HandleFunc("/repos/owner/pets/contents/public/knowledge.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "master", r.URL.Query().Get("ref"))
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "abc123"})
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{}`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pub := NewGitHubPublisher(&config.GitHubConfig{
		Token:         "secret",
		Repo:          "owner/pets",
		KnowledgePath: "public/knowledge.json",
	}, zap.NewNop()).WithBaseURL(srv.URL)

	kb := &models.KnowledgeBase{Version: "2.0.0"}
	require.NoError(t, pub.Publish(context.Background(), kb, "update knowledge to 2.0.0"))

	assert.Equal(t, "abc123", put["sha"])
	assert.Equal(t, "master", put["branch"])
	assert.Equal(t, "update knowledge to 2.0.0", put["message"])

	content, err := base64.StdEncoding.DecodeString(put["content"])
	require.NoError(t, err)
	decoded, err := Decode(content)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", decoded.Version)
}

func TestGitHubPublisher_RepoError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	pub := NewGitHubPublisher(&config.GitHubConfig{Token: "t", Repo: "owner/missing"}, zap.NewNop()).WithBaseURL(srv.URL)

	err := pub.Publish(context.Background(), &models.KnowledgeBase{Version: "1"}, "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestGitHubPublisher_EscapesPathSegments(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.EscapedPath())
		mu.Unlock()
		switch {
		case r.URL.Path == "/repos/owner/pets":
			_ = json.NewEncoder(w).Encode(map[string]string{"default_branch": "main"})
		case r.URL.Path == "/repos/owner/pets/contents/data/寵物 知識.json":
			if r.Method == http.MethodGet {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"unexpected path"}`))
		}
	}))
	defer srv.Close()

	pub := NewGitHubPublisher(&config.GitHubConfig{
		Token:         "t",
		Repo:          "owner/pets",
		KnowledgePath: "data/寵物 知識.json",
	}, zap.NewNop()).WithBaseURL(srv.URL)

	require.NoError(t, pub.Publish(context.Background(), &models.KnowledgeBase{Version: "1"}, "msg"))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, paths, 3)
	assert.Equal(t, "/repos/owner/pets/contents/data/%E5%AF%B5%E7%89%A9%20%E7%9F%A5%E8%AD%98.json", paths[2])
}
