package server

import (
	graphql "github.com/golangid/graphql-go"
	"go.uber.org/zap"

	"github.com/FilipGjorgjeski/objavnica/pubsub"
	"github.com/FilipGjorgjeski/objavnica/storage"
)

// Resolver is the GraphQL root. Mutations run against the store and, when
// the applied change implies a notification, publish it on the hub before
// returning.
type Resolver struct {
	store *storage.Store
	hub   *pubsub.Hub
	log   *zap.SugaredLogger
}

func NewResolver(store *storage.Store, hub *pubsub.Hub, log *zap.SugaredLogger) *Resolver {
	return &Resolver{store: store, hub: hub, log: log}
}

func (r *Resolver) publish(rec storage.ChangeRecord) {
	ev, topic, ok := pubsub.Derive(rec)
	if !ok {
		return
	}
	r.hub.Publish(topic, ev)
	r.log.Infow("event published", "topic", topic, "mutation", ev.Mutation)
}

type UserCreateInput struct {
	Name  string
	Email string
	Age   *int32
}

type UserUpdateInput struct {
	Name  *string
	Email *string
	Age   *int32
}

type PostCreateInput struct {
	Title     string
	Body      string
	Published bool
	Author    graphql.ID
}

type PostUpdateInput struct {
	Title     *string
	Body      *string
	Published *bool
}

type CommentCreateInput struct {
	Text   string
	Author graphql.ID
	Post   graphql.ID
}

type CommentUpdateInput struct {
	Text *string
}

func (r *Resolver) Users(args struct{ Query *string }) []*UserResolver {
	var q string
	if args.Query != nil {
		q = *args.Query
	}
	users := r.store.Users(q)
	res := make([]*UserResolver, 0, len(users))
	for _, u := range users {
		res = append(res, &UserResolver{user: u, store: r.store})
	}
	return res
}

func (r *Resolver) Posts(args struct{ Query *string }) []*PostResolver {
	var q string
	if args.Query != nil {
		q = *args.Query
	}
	posts := r.store.Posts(q)
	res := make([]*PostResolver, 0, len(posts))
	for _, p := range posts {
		res = append(res, &PostResolver{post: p, store: r.store})
	}
	return res
}

func (r *Resolver) Comments() []*CommentResolver {
	comments := r.store.Comments()
	res := make([]*CommentResolver, 0, len(comments))
	for _, c := range comments {
		res = append(res, &CommentResolver{comment: c, store: r.store})
	}
	return res
}

func (r *Resolver) CreateUser(args struct{ Data UserCreateInput }) (*UserResolver, error) {
	u, err := r.store.CreateUser(storage.UserCreate{
		Name:  args.Data.Name,
		Email: args.Data.Email,
		Age:   args.Data.Age,
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("create_user", "id", u.ID, "email", u.Email)
	return &UserResolver{user: u, store: r.store}, nil
}

func (r *Resolver) UpdateUser(args struct {
	ID   graphql.ID
	Data UserUpdateInput
}) (*UserResolver, error) {
	u, err := r.store.UpdateUser(string(args.ID), storage.UserUpdate{
		Name:  args.Data.Name,
		Email: args.Data.Email,
		Age:   args.Data.Age,
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("update_user", "id", u.ID)
	return &UserResolver{user: u, store: r.store}, nil
}

func (r *Resolver) DeleteUser(args struct{ ID graphql.ID }) (*UserResolver, error) {
	u, err := r.store.DeleteUser(string(args.ID))
	if err != nil {
		return nil, err
	}
	r.log.Infow("delete_user", "id", u.ID)
	return &UserResolver{user: u, store: r.store}, nil
}

func (r *Resolver) CreatePost(args struct{ Data PostCreateInput }) (*PostResolver, error) {
	p, rec, err := r.store.CreatePost(storage.PostCreate{
		Title:     args.Data.Title,
		Body:      args.Data.Body,
		Published: args.Data.Published,
		Author:    string(args.Data.Author),
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("create_post", "id", p.ID, "published", p.Published)
	r.publish(rec)
	return &PostResolver{post: p, store: r.store}, nil
}

func (r *Resolver) UpdatePost(args struct {
	ID   graphql.ID
	Data PostUpdateInput
}) (*PostResolver, error) {
	p, rec, err := r.store.UpdatePost(string(args.ID), storage.PostUpdate{
		Title:     args.Data.Title,
		Body:      args.Data.Body,
		Published: args.Data.Published,
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("update_post", "id", p.ID, "published", p.Published)
	r.publish(rec)
	return &PostResolver{post: p, store: r.store}, nil
}

func (r *Resolver) DeletePost(args struct{ ID graphql.ID }) (*PostResolver, error) {
	p, rec, err := r.store.DeletePost(string(args.ID))
	if err != nil {
		return nil, err
	}
	r.log.Infow("delete_post", "id", p.ID)
	r.publish(rec)
	return &PostResolver{post: p, store: r.store}, nil
}

func (r *Resolver) CreateComment(args struct{ Data CommentCreateInput }) (*CommentResolver, error) {
	c, rec, err := r.store.CreateComment(storage.CommentCreate{
		Text:   args.Data.Text,
		Author: string(args.Data.Author),
		Post:   string(args.Data.Post),
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("create_comment", "id", c.ID, "post", c.Post)
	r.publish(rec)
	return &CommentResolver{comment: c, store: r.store}, nil
}

func (r *Resolver) UpdateComment(args struct {
	ID   graphql.ID
	Data CommentUpdateInput
}) (*CommentResolver, error) {
	c, rec, err := r.store.UpdateComment(string(args.ID), storage.CommentUpdate{
		Text: args.Data.Text,
	})
	if err != nil {
		return nil, err
	}
	r.log.Infow("update_comment", "id", c.ID)
	r.publish(rec)
	return &CommentResolver{comment: c, store: r.store}, nil
}

func (r *Resolver) DeleteComment(args struct{ ID graphql.ID }) (*CommentResolver, error) {
	c, rec, err := r.store.DeleteComment(string(args.ID))
	if err != nil {
		return nil, err
	}
	r.log.Infow("delete_comment", "id", c.ID)
	r.publish(rec)
	return &CommentResolver{comment: c, store: r.store}, nil
}
