package storage

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("failed validation")
)

type User struct {
	ID    string
	Name  string
	Email string
	Age   *int32
}

type Post struct {
	ID        string
	Title     string
	Body      string
	Published bool
	Author    string
}

type Comment struct {
	ID     string
	Text   string
	Author string
	Post   string
}

// Store holds the content graph. The collections are small and read with
// linear scans; every mutation runs under one lock so validate-then-apply
// sequences do not interleave.
type Store struct {
	mu sync.RWMutex

	users    []User
	posts    []Post
	comments []Comment

	newID func() string
}

func New() *Store {
	return &Store{newID: uuid.NewString}
}

// NewWithIDFunc builds a store with a caller-supplied id generator.
// Ids are opaque to the store; tests use this to pin them.
func NewWithIDFunc(newID func() string) *Store {
	return &Store{newID: newID}
}

// Users returns all users, or those whose name contains query
// (case-insensitive) when query is non-empty.
func (s *Store) Users(query string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]User, 0, len(s.users))
	q := strings.ToLower(query)
	for _, u := range s.users {
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) {
			continue
		}
		res = append(res, u)
	}
	return res
}

// Posts returns all posts, or those whose title or body contains query
// (case-insensitive) when query is non-empty.
func (s *Store) Posts(query string) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Post, 0, len(s.posts))
	q := strings.ToLower(query)
	for _, p := range s.posts {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Body), q) {
			continue
		}
		res = append(res, p)
	}
	return res
}

func (s *Store) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Comment, len(s.comments))
	copy(res, s.comments)
	return res
}

func (s *Store) UserByID(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.userIndexLocked(id); i >= 0 {
		return s.users[i], true
	}
	return User{}, false
}

func (s *Store) PostByID(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.postIndexLocked(id); i >= 0 {
		return s.posts[i], true
	}
	return Post{}, false
}

func (s *Store) CommentByID(id string) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.commentIndexLocked(id); i >= 0 {
		return s.comments[i], true
	}
	return Comment{}, false
}

func (s *Store) PostsByAuthor(userID string) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []Post
	for _, p := range s.posts {
		if p.Author == userID {
			res = append(res, p)
		}
	}
	return res
}

func (s *Store) CommentsByPost(postID string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []Comment
	for _, c := range s.comments {
		if c.Post == postID {
			res = append(res, c)
		}
	}
	return res
}

func (s *Store) CommentsByAuthor(userID string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []Comment
	for _, c := range s.comments {
		if c.Author == userID {
			res = append(res, c)
		}
	}
	return res
}

func (s *Store) userIndexLocked(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) postIndexLocked(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commentIndexLocked(id string) int {
	for i, c := range s.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
