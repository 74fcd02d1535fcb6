package server

import (
	graphql "github.com/golangid/graphql-go"

	"github.com/FilipGjorgjeski/objavnica/pubsub"
	"github.com/FilipGjorgjeski/objavnica/storage"
)

// Type resolvers carry an entity snapshot plus the store for relationship
// fields. Relations are weak id references resolved on demand.

type UserResolver struct {
	user  storage.User
	store *storage.Store
}

func (r *UserResolver) ID() graphql.ID { return graphql.ID(r.user.ID) }
func (r *UserResolver) Name() string   { return r.user.Name }
func (r *UserResolver) Email() string  { return r.user.Email }
func (r *UserResolver) Age() *int32    { return r.user.Age }

func (r *UserResolver) Posts() []*PostResolver {
	posts := r.store.PostsByAuthor(r.user.ID)
	res := make([]*PostResolver, 0, len(posts))
	for _, p := range posts {
		res = append(res, &PostResolver{post: p, store: r.store})
	}
	return res
}

func (r *UserResolver) Comments() []*CommentResolver {
	comments := r.store.CommentsByAuthor(r.user.ID)
	res := make([]*CommentResolver, 0, len(comments))
	for _, c := range comments {
		res = append(res, &CommentResolver{comment: c, store: r.store})
	}
	return res
}

type PostResolver struct {
	post  storage.Post
	store *storage.Store
}

func (r *PostResolver) ID() graphql.ID  { return graphql.ID(r.post.ID) }
func (r *PostResolver) Title() string   { return r.post.Title }
func (r *PostResolver) Body() string    { return r.post.Body }
func (r *PostResolver) Published() bool { return r.post.Published }

func (r *PostResolver) Author() (*UserResolver, error) {
	u, ok := r.store.UserByID(r.post.Author)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &UserResolver{user: u, store: r.store}, nil
}

func (r *PostResolver) Comments() []*CommentResolver {
	comments := r.store.CommentsByPost(r.post.ID)
	res := make([]*CommentResolver, 0, len(comments))
	for _, c := range comments {
		res = append(res, &CommentResolver{comment: c, store: r.store})
	}
	return res
}

type CommentResolver struct {
	comment storage.Comment
	store   *storage.Store
}

func (r *CommentResolver) ID() graphql.ID { return graphql.ID(r.comment.ID) }
func (r *CommentResolver) Text() string   { return r.comment.Text }

func (r *CommentResolver) Author() (*UserResolver, error) {
	u, ok := r.store.UserByID(r.comment.Author)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &UserResolver{user: u, store: r.store}, nil
}

func (r *CommentResolver) Post() (*PostResolver, error) {
	p, ok := r.store.PostByID(r.comment.Post)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &PostResolver{post: p, store: r.store}, nil
}

type PostEventResolver struct {
	event pubsub.Event
	store *storage.Store
}

func (r *PostEventResolver) Mutation() string { return string(r.event.Mutation) }

func (r *PostEventResolver) Data() *PostResolver {
	return &PostResolver{post: *r.event.Post, store: r.store}
}

type CommentEventResolver struct {
	event pubsub.Event
	store *storage.Store
}

func (r *CommentEventResolver) Mutation() string { return string(r.event.Mutation) }

func (r *CommentEventResolver) Data() *CommentResolver {
	return &CommentResolver{comment: *r.event.Comment, store: r.store}
}
