package server

import (
	"context"

	graphql "github.com/golangid/graphql-go"

	"github.com/FilipGjorgjeski/objavnica/pubsub"
	"github.com/FilipGjorgjeski/objavnica/storage"
)

// Post subscribes to the global post topic. The returned channel closes when
// the subscriber's context is cancelled, which also removes the session from
// the hub.
func (r *Resolver) Post(ctx context.Context) (<-chan *PostEventResolver, error) {
	sess, cancel := r.hub.Subscribe(pubsub.TopicPosts)
	r.log.Infow("subscribe", "topic", sess.Topic())

	out := make(chan *PostEventResolver)
	go func() {
		defer cancel()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sess.Events():
				if !ok {
					return
				}
				select {
				case out <- &PostEventResolver{event: ev, store: r.store}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Comment subscribes to comment notifications for one post. The post must be
// published at subscribe time; unpublishing it later leaves the session
// alive.
func (r *Resolver) Comment(ctx context.Context, args struct{ PostID graphql.ID }) (<-chan *CommentEventResolver, error) {
	post, ok := r.store.PostByID(string(args.PostID))
	if !ok || !post.Published {
		return nil, storage.ErrNotFound
	}

	sess, cancel := r.hub.Subscribe(pubsub.CommentTopic(post.ID))
	r.log.Infow("subscribe", "topic", sess.Topic())

	out := make(chan *CommentEventResolver)
	go func() {
		defer cancel()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sess.Events():
				if !ok {
					return
				}
				select {
				case out <- &CommentEventResolver{event: ev, store: r.store}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
