package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/tazhibayda/profile-service/internal/github"
	api "github.com/tazhibayda/profile-service/internal/http"
	"github.com/tazhibayda/profile-service/internal/log"
	"github.com/tazhibayda/profile-service/internal/queue"
	"github.com/tazhibayda/profile-service/internal/repo"
)

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Store  *repo.Store
	Router *gin.Engine
	GH     *httptest.Server
}

// fake github API: octocat has repos, everyone else is a 404
func newGithubFake() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat/repos" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"name":"hello","html_url":"https://github.com/octocat/hello"}]`))
			return
		}
		http.NotFound(w, r)
	}))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "profile_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureUserIndexes(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.EnsureProfileIndexes(ctx); err != nil {
		t.Fatal(err)
	}

	ghSrv := newGithubFake()
	gh := github.NewClient(ghSrv.URL, "", "")

	// no redis (rate limit off), no broker (noop publisher)
	h := api.NewHandler(store, "test_secret", 100, nil, 0, queue.NewNoop(), gh)

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(h)

	return &testEnv{T: t, Ctx: ctx, Mongo: mc, Store: store, Router: r, GH: ghSrv}
}

func (e *testEnv) Close() {
	if e.GH != nil {
		e.GH.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}
