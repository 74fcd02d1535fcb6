package pubsub

import "github.com/FilipGjorgjeski/objavnica/storage"

type MutationKind string

const (
	MutationCreated MutationKind = "CREATED"
	MutationUpdated MutationKind = "UPDATED"
	MutationDeleted MutationKind = "DELETED"
)

// TopicPosts is the single global topic carrying post notifications.
const TopicPosts = "post"

// CommentTopic names the per-post topic carrying comment notifications.
func CommentTopic(postID string) string {
	return "comment:" + postID
}

// Event is the externally observable notification delivered to subscribers.
// Exactly one of Post/Comment is set, matching Kind.
type Event struct {
	Kind     storage.EntityKind
	Mutation MutationKind
	Post     *storage.Post
	Comment  *storage.Comment
}

// Derive maps a change record to the notification it implies, if any,
// together with the topic it belongs on.
//
// Comment changes always notify on their post's topic. Post changes are
// filtered through the published flag so that subscribers observe a world in
// which only published posts exist: a post becoming published appears
// (CREATED), a post becoming unpublished disappears (DELETED), and an edit
// to a post that stays published is an UPDATED. Changes confined to the
// unpublished side emit nothing.
func Derive(rec storage.ChangeRecord) (Event, string, bool) {
	switch rec.Kind {
	case storage.KindPost:
		return derivePost(rec)
	case storage.KindComment:
		return deriveComment(rec)
	}
	return Event{}, "", false
}

func derivePost(rec storage.ChangeRecord) (Event, string, bool) {
	ev := Event{Kind: storage.KindPost}

	switch rec.Op {
	case storage.OpCreate:
		if !rec.PostAfter.Published {
			return Event{}, "", false
		}
		ev.Mutation = MutationCreated
		ev.Post = rec.PostAfter
	case storage.OpDelete:
		if !rec.PostBefore.Published {
			return Event{}, "", false
		}
		ev.Mutation = MutationDeleted
		ev.Post = rec.PostBefore
	case storage.OpUpdate:
		before, after := rec.PostBefore.Published, rec.PostAfter.Published
		switch {
		case !before && after:
			ev.Mutation = MutationCreated
			ev.Post = rec.PostAfter
		case before && !after:
			// Deliver the last published snapshot so unpublished edits
			// do not leak to subscribers.
			ev.Mutation = MutationDeleted
			ev.Post = rec.PostBefore
		case before && after:
			ev.Mutation = MutationUpdated
			ev.Post = rec.PostAfter
		default:
			return Event{}, "", false
		}
	default:
		return Event{}, "", false
	}
	return ev, TopicPosts, true
}

func deriveComment(rec storage.ChangeRecord) (Event, string, bool) {
	ev := Event{Kind: storage.KindComment}

	switch rec.Op {
	case storage.OpCreate:
		ev.Mutation = MutationCreated
		ev.Comment = rec.CommentAfter
	case storage.OpUpdate:
		ev.Mutation = MutationUpdated
		ev.Comment = rec.CommentAfter
	case storage.OpDelete:
		ev.Mutation = MutationDeleted
		ev.Comment = rec.CommentBefore
	default:
		return Event{}, "", false
	}
	return ev, CommentTopic(ev.Comment.Post), true
}
