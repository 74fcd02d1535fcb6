package storage

import "strings"

type EntityKind int

const (
	KindPost EntityKind = iota
	KindComment
)

type OpType int

const (
	OpCreate OpType = iota
	OpUpdate
	OpDelete
)

// ChangeRecord describes one applied mutation: the entity kind, the
// operation, and before/after snapshots. A nil snapshot means the entity did
// not exist on that side of the mutation. Records are handed to the event
// deriver and never retained.
type ChangeRecord struct {
	Kind EntityKind
	Op   OpType

	PostBefore *Post
	PostAfter  *Post

	CommentBefore *Comment
	CommentAfter  *Comment
}

func postChange(op OpType, before, after *Post) ChangeRecord {
	return ChangeRecord{Kind: KindPost, Op: op, PostBefore: before, PostAfter: after}
}

func commentChange(op OpType, before, after *Comment) ChangeRecord {
	return ChangeRecord{Kind: KindComment, Op: op, CommentBefore: before, CommentAfter: after}
}

type UserCreate struct {
	Name  string
	Email string
	Age   *int32
}

// Update inputs carry a pointer per field: nil means the field was not
// supplied and stays untouched.
type UserUpdate struct {
	Name  *string
	Email *string
	Age   *int32
}

type PostCreate struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

type PostUpdate struct {
	Title     *string
	Body      *string
	Published *bool
}

type CommentCreate struct {
	Text   string
	Author string
	Post   string
}

type CommentUpdate struct {
	Text *string
}

func (s *Store) CreateUser(data UserCreate) (User, error) {
	name := strings.TrimSpace(data.Name)
	email := strings.TrimSpace(data.Email)
	if name == "" || email == "" {
		return User{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrConflict
		}
	}

	user := User{ID: s.newID(), Name: name, Email: email, Age: data.Age}
	s.users = append(s.users, user)
	return user, nil
}

func (s *Store) UpdateUser(id string, data UserUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndexLocked(id)
	if i < 0 {
		return User{}, ErrNotFound
	}

	if data.Email != nil {
		for _, u := range s.users {
			if u.Email == *data.Email && u.ID != id {
				return User{}, ErrConflict
			}
		}
	}

	user := s.users[i]
	if data.Email != nil {
		user.Email = *data.Email
	}
	if data.Name != nil {
		user.Name = *data.Name
	}
	if data.Age != nil {
		user.Age = data.Age
	}
	s.users[i] = user
	return user, nil
}

// DeleteUser removes the user and cascades: every post they authored goes
// away together with all comments on those posts, and so does every comment
// they authored anywhere. Cascaded children produce no change records.
func (s *Store) DeleteUser(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndexLocked(id)
	if i < 0 {
		return User{}, ErrNotFound
	}
	user := s.users[i]

	// Collect affected children first, then apply, so the removal is one
	// consistent step.
	deadPosts := map[string]struct{}{}
	for _, p := range s.posts {
		if p.Author == id {
			deadPosts[p.ID] = struct{}{}
		}
	}

	posts := s.posts[:0]
	for _, p := range s.posts {
		if _, dead := deadPosts[p.ID]; !dead {
			posts = append(posts, p)
		}
	}
	s.posts = posts

	comments := s.comments[:0]
	for _, c := range s.comments {
		if c.Author == id {
			continue
		}
		if _, dead := deadPosts[c.Post]; dead {
			continue
		}
		comments = append(comments, c)
	}
	s.comments = comments

	s.users = append(s.users[:i], s.users[i+1:]...)
	return user, nil
}

func (s *Store) CreatePost(data PostCreate) (Post, ChangeRecord, error) {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		return Post{}, ChangeRecord{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndexLocked(data.Author) < 0 {
		return Post{}, ChangeRecord{}, ErrNotFound
	}

	post := Post{
		ID:        s.newID(),
		Title:     title,
		Body:      data.Body,
		Published: data.Published,
		Author:    data.Author,
	}
	s.posts = append(s.posts, post)

	after := post
	return post, postChange(OpCreate, nil, &after), nil
}

func (s *Store) UpdatePost(id string, data PostUpdate) (Post, ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.postIndexLocked(id)
	if i < 0 {
		return Post{}, ChangeRecord{}, ErrNotFound
	}

	before := s.posts[i]
	post := before
	if data.Title != nil {
		post.Title = *data.Title
	}
	if data.Body != nil {
		post.Body = *data.Body
	}
	if data.Published != nil {
		post.Published = *data.Published
	}
	s.posts[i] = post

	after := post
	return post, postChange(OpUpdate, &before, &after), nil
}

// DeletePost removes the post and every comment attached to it. Only the
// post itself gets a change record.
func (s *Store) DeletePost(id string) (Post, ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.postIndexLocked(id)
	if i < 0 {
		return Post{}, ChangeRecord{}, ErrNotFound
	}
	post := s.posts[i]

	comments := s.comments[:0]
	for _, c := range s.comments {
		if c.Post != id {
			comments = append(comments, c)
		}
	}
	s.comments = comments
	s.posts = append(s.posts[:i], s.posts[i+1:]...)

	before := post
	return post, postChange(OpDelete, &before, nil), nil
}

func (s *Store) CreateComment(data CommentCreate) (Comment, ChangeRecord, error) {
	text := strings.TrimSpace(data.Text)
	if text == "" {
		return Comment{}, ChangeRecord{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndexLocked(data.Author) < 0 {
		return Comment{}, ChangeRecord{}, ErrValidation
	}
	pi := s.postIndexLocked(data.Post)
	if pi < 0 || !s.posts[pi].Published {
		return Comment{}, ChangeRecord{}, ErrValidation
	}

	comment := Comment{ID: s.newID(), Text: text, Author: data.Author, Post: data.Post}
	s.comments = append(s.comments, comment)

	after := comment
	return comment, commentChange(OpCreate, nil, &after), nil
}

func (s *Store) UpdateComment(id string, data CommentUpdate) (Comment, ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commentIndexLocked(id)
	if i < 0 {
		return Comment{}, ChangeRecord{}, ErrNotFound
	}

	before := s.comments[i]
	comment := before
	if data.Text != nil {
		comment.Text = *data.Text
	}
	s.comments[i] = comment

	after := comment
	return comment, commentChange(OpUpdate, &before, &after), nil
}

func (s *Store) DeleteComment(id string) (Comment, ChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.commentIndexLocked(id)
	if i < 0 {
		return Comment{}, ChangeRecord{}, ErrNotFound
	}
	comment := s.comments[i]
	s.comments = append(s.comments[:i], s.comments[i+1:]...)

	before := comment
	return comment, commentChange(OpDelete, &before, nil), nil
}
