package main

import (
	"flag"
	"log"
	"os"

	graphql "github.com/golangid/graphql-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FilipGjorgjeski/objavnica/internal/server"
	"github.com/FilipGjorgjeski/objavnica/pubsub"
	"github.com/FilipGjorgjeski/objavnica/storage"
)

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	listen := fs.String("listen", envOr("OBJAVNICA_LISTEN", "127.0.0.1:4000"), "HTTP listen address")
	seed := fs.Bool("seed", false, "install demo content on startup")
	_ = fs.Parse(os.Args[1:])

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	st := storage.New()
	hub := pubsub.NewHub()
	if *seed {
		seedDemo(st, logger)
	}

	resolver := server.NewResolver(st, hub, logger)
	schema := graphql.MustParseSchema(server.Schema, resolver)

	logger.Infow("listening", "addr", *listen, "endpoint", "/graphql")
	if err := server.ListenAndServe(*listen, schema, logger); err != nil {
		logger.Fatalw("serve", "err", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedDemo installs a small demo graph through the regular mutation path so
// all invariants hold.
func seedDemo(st *storage.Store, logger *zap.SugaredLogger) {
	age := int32(27)
	andrew, err := st.CreateUser(storage.UserCreate{Name: "Andrew", Email: "andrew@example.com", Age: &age})
	if err != nil {
		logger.Fatalw("seed user", "err", err)
	}
	sarah, err := st.CreateUser(storage.UserCreate{Name: "Sarah", Email: "sarah@example.com"})
	if err != nil {
		logger.Fatalw("seed user", "err", err)
	}
	mike, err := st.CreateUser(storage.UserCreate{Name: "Mike", Email: "mike@example.com"})
	if err != nil {
		logger.Fatalw("seed user", "err", err)
	}

	p1, _, err := st.CreatePost(storage.PostCreate{Title: "GraphQL 101", Body: "This is how to use GraphQL...", Published: true, Author: andrew.ID})
	if err != nil {
		logger.Fatalw("seed post", "err", err)
	}
	if _, _, err := st.CreatePost(storage.PostCreate{Title: "GraphQL 201", Body: "This is an advanced GraphQL post...", Published: false, Author: andrew.ID}); err != nil {
		logger.Fatalw("seed post", "err", err)
	}
	if _, _, err := st.CreatePost(storage.PostCreate{Title: "Programming Music", Body: "Music to program to.", Published: false, Author: sarah.ID}); err != nil {
		logger.Fatalw("seed post", "err", err)
	}

	// Comments only go on the published post; the store rejects the rest.
	if _, _, err := st.CreateComment(storage.CommentCreate{Text: "Great intro!", Author: sarah.ID, Post: p1.ID}); err != nil {
		logger.Fatalw("seed comment", "err", err)
	}
	if _, _, err := st.CreateComment(storage.CommentCreate{Text: "Looking forward to 201.", Author: mike.ID, Post: p1.ID}); err != nil {
		logger.Fatalw("seed comment", "err", err)
	}

	logger.Infow("demo content installed", "users", 3, "posts", 3, "comments", 2)
}
