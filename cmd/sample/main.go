// Command sample is a small users API that documents itself with
// github.com/bjaus/apidoc. Handler comments are attached at registration.
//
// Run the API:
//
//	go run ./cmd/sample
//
// Write its route manifest for the apidoc command:
//
//	go run ./cmd/sample -manifest routes.yaml
//
// Generate its documentation in-process:
//
//	go run ./cmd/sample -docs public/docs
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/bjaus/apidoc"
)

func main() {
	manifestFlag := flag.String("manifest", "", "Write the route manifest to this file (.json or .yaml) and exit")
	docsFlag := flag.String("docs", "", "Generate the documentation into this directory and exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := newUserStore()
	r := newRouter(store)

	switch {
	case *manifestFlag != "":
		if err := writeManifest(r, *manifestFlag); err != nil {
			slog.Error("manifest export failed", "err", err)
			os.Exit(1)
		}
	case *docsFlag != "":
		if err := generateDocs(ctx, r, store, *docsFlag); err != nil {
			slog.Error("documentation failed", "err", err)
			os.Exit(1)
		}
	default:
		slog.Info("starting server", "addr", ":8080")
		if err := r.ListenAndServe(ctx, ":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
		}
		slog.Info("server stopped")
	}
}

func newRouter(store *userStore) *apidoc.Router {
	r := apidoc.New(apidoc.WithTitle("Sample API"))
	r.Use(apidoc.RequestID(), apidoc.Logger(slog.Default()), apidoc.Recovery(slog.Default()))

	r.Describe("AuthController", "@resource Authentication")
	r.Describe("UserController", "@resource Users")

	auth := r.Group("/api/auth", apidoc.WithGroupContainer("AuthController"))
	apidoc.Post(auth, "/login", handleLogin,
		apidoc.WithHandlerID("login"),
		apidoc.WithName("auth.login"),
		apidoc.WithComment(`
Log in.
Returns a token pair for the given credentials.

@unauthenticated
@bodyParam email email required The account email.
@bodyParam password password required The account password.
@response {"data": {"access_token": "abc", "refresh_token": "def"}}`),
	)
	apidoc.Post(auth, "/logout", handleLogout,
		apidoc.WithHandlerID("logout"),
		apidoc.WithName("auth.logout"),
		apidoc.WithComment("Log out.\nRevokes the current token pair."),
	)

	users := r.Group("/api/users", apidoc.WithGroupContainer("UserController"))
	apidoc.Get(users, "/", store.list,
		apidoc.WithHandlerID("index"),
		apidoc.WithName("users.index"),
		apidoc.WithComment("List users.\n@permission users.view\n@transformerCollection UserTransformer"),
	)
	apidoc.Post(users, "/", store.create,
		apidoc.WithHandlerID("store"),
		apidoc.WithName("users.store"),
		apidoc.WithComment(`
Create a user.

@permission users.create
@bodyParam name string name() required Full name.
@bodyParam email email required Unique email address.
@bodyParam avatar file optional Profile picture.
@transformer UserTransformer`),
	)
	apidoc.Get(users, "/{id}", store.show,
		apidoc.WithHandlerID("show"),
		apidoc.WithName("users.show"),
		apidoc.WithComment("Show a user.\n@transformer UserTransformer"),
	)
	apidoc.Delete(users, "/{id}", store.remove,
		apidoc.WithHandlerID("destroy"),
		apidoc.WithName("users.destroy"),
		apidoc.WithComment("Delete a user.\n@permission users.delete"),
	)

	apidoc.Get(r, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, apidoc.WithHidden())

	return r
}

func writeManifest(r *apidoc.Router, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".json") {
		return r.WriteManifest(f)
	}
	return r.WriteManifestYAML(f)
}

func generateDocs(ctx context.Context, r *apidoc.Router, store *userStore, dir string) error {
	models := apidoc.NewModels()
	models.RegisterType("user", user{})
	models.RegisterFinder("user", func(ctx context.Context, _ string) (any, error) {
		id, _ := apidoc.ActingAs(ctx)
		return store.find(id)
	})

	transformers := apidoc.NewTransformers()
	transformers.Register("UserTransformer", apidoc.TypedTransformer(func(_ context.Context, u user) (any, error) {
		return map[string]any{"id": u.ID, "name": u.Name, "email": u.Email}, nil
	}))

	gen := apidoc.NewGenerator(r, r,
		apidoc.WithResolver(apidoc.NewResolver(transformers, models)),
		apidoc.WithActingAsID("1"),
	)
	res, err := gen.Generate(ctx, apidoc.Filter{Prefixes: []string{"api/*"}})
	if err != nil {
		return err
	}
	_, err = apidoc.Write(ctx, res.Groups, apidoc.WriteOptions{
		Dir:        dir,
		Markdown:   apidoc.MarkdownOptions{Title: r.Title()},
		Collection: apidoc.CollectionOptions{Name: r.Title()},
		Format:     "json",
	})
	return err
}

// ---------- handlers ----------

type user struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]user
	next  int
}

func newUserStore() *userStore {
	return &userStore{
		users: map[string]user{"1": {ID: "1", Name: "Ada Lovelace", Email: "ada@example.com"}},
		next:  2,
	}
}

func (s *userStore) find(id string) (*user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q not found", id)
	}
	return &u, nil
}

func (s *userStore) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]user, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *userStore) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user{ID: fmt.Sprint(s.next), Name: r.FormValue("name"), Email: r.FormValue("email")}
	s.users[u.ID] = u
	s.next++
	writeJSON(w, http.StatusCreated, map[string]any{"data": u})
}

func (s *userStore) show(w http.ResponseWriter, r *http.Request) {
	u, err := s.find(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": u})
}

func (s *userStore) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func handleLogin(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{
		"access_token":  "access",
		"refresh_token": "refresh",
	}})
}

func handleLogout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort encode
	json.NewEncoder(w).Encode(v)
}
