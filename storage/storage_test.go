package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore() *Store {
	n := 0
	return NewWithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func TestCreateUser_TrimsAndUniqByEmail(t *testing.T) {
	s := newTestStore()

	u, err := s.CreateUser(UserCreate{Name: "  Ana  ", Email: " ana@x.com "})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if u.ID != "id-1" {
		t.Fatalf("expected ID=id-1, got %s", u.ID)
	}
	if u.Name != "Ana" || u.Email != "ana@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := s.CreateUser(UserCreate{Name: "Other", Email: "ana@x.com"}); err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.CreateUser(UserCreate{Name: "   ", Email: "b@x.com"}); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateUser_PartialFields(t *testing.T) {
	s := newTestStore()

	age := int32(27)
	u, err := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com", Age: &age})
	assert.NoError(t, err)
	other, err := s.CreateUser(UserCreate{Name: "Borko", Email: "borko@x.com"})
	assert.NoError(t, err)

	t.Run("not-found", func(t *testing.T) {
		_, err := s.UpdateUser("nope", UserUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only-supplied-fields-change", func(t *testing.T) {
		name := "Anna"
		got, err := s.UpdateUser(u.ID, UserUpdate{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, "Anna", got.Name)
		assert.Equal(t, "ana@x.com", got.Email)
		if assert.NotNil(t, got.Age) {
			assert.EqualValues(t, 27, *got.Age)
		}
	})

	t.Run("email-taken-by-other", func(t *testing.T) {
		email := "borko@x.com"
		_, err := s.UpdateUser(u.ID, UserUpdate{Email: &email})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("own-email-is-not-a-conflict", func(t *testing.T) {
		email := "borko@x.com"
		got, err := s.UpdateUser(other.ID, UserUpdate{Email: &email})
		assert.NoError(t, err)
		assert.Equal(t, "borko@x.com", got.Email)
	})
}

func TestDeleteUser_Cascades(t *testing.T) {
	s := newTestStore()

	ana, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	borko, _ := s.CreateUser(UserCreate{Name: "Borko", Email: "borko@x.com"})

	anaPost, _, err := s.CreatePost(PostCreate{Title: "Ana's", Body: "b", Published: true, Author: ana.ID})
	assert.NoError(t, err)
	borkoPost, _, err := s.CreatePost(PostCreate{Title: "Borko's", Body: "b", Published: true, Author: borko.ID})
	assert.NoError(t, err)

	// Borko comments on Ana's post, Ana comments on Borko's.
	_, _, err = s.CreateComment(CommentCreate{Text: "hi", Author: borko.ID, Post: anaPost.ID})
	assert.NoError(t, err)
	_, _, err = s.CreateComment(CommentCreate{Text: "yo", Author: ana.ID, Post: borkoPost.ID})
	assert.NoError(t, err)

	deleted, err := s.DeleteUser(ana.ID)
	assert.NoError(t, err)
	assert.Equal(t, ana.ID, deleted.ID)

	_, ok := s.UserByID(ana.ID)
	assert.False(t, ok)
	assert.Empty(t, s.PostsByAuthor(ana.ID), "ana's posts must be gone")
	assert.Empty(t, s.CommentsByPost(anaPost.ID), "comments on ana's posts must be gone")
	assert.Empty(t, s.CommentsByAuthor(ana.ID), "ana's comments elsewhere must be gone")

	// Borko's post survives, now without Ana's comment.
	_, ok = s.PostByID(borkoPost.ID)
	assert.True(t, ok)
	assert.Empty(t, s.CommentsByPost(borkoPost.ID))

	_, err = s.DeleteUser(ana.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePost_AuthorMustExist(t *testing.T) {
	s := newTestStore()

	if _, _, err := s.CreatePost(PostCreate{Title: "T", Body: "B", Author: "ghost"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(s.Posts("")) != 0 {
		t.Fatalf("store must be untouched after rejected create")
	}

	u, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	p, rec, err := s.CreatePost(PostCreate{Title: "T", Body: "B", Published: true, Author: u.ID})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if rec.Kind != KindPost || rec.Op != OpCreate {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.PostBefore != nil {
		t.Fatalf("create record must have nil before")
	}
	if rec.PostAfter == nil || rec.PostAfter.ID != p.ID {
		t.Fatalf("create record after mismatch: %+v", rec.PostAfter)
	}
}

func TestUpdatePost_SnapshotsBeforeAndAfter(t *testing.T) {
	s := newTestStore()

	u, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	p, _, _ := s.CreatePost(PostCreate{Title: "T", Body: "B", Published: false, Author: u.ID})

	published := true
	title := "T2"
	got, rec, err := s.UpdatePost(p.ID, PostUpdate{Title: &title, Published: &published})
	assert.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "B", got.Body)
	assert.True(t, got.Published)

	assert.Equal(t, OpUpdate, rec.Op)
	if assert.NotNil(t, rec.PostBefore) {
		assert.Equal(t, "T", rec.PostBefore.Title)
		assert.False(t, rec.PostBefore.Published)
	}
	if assert.NotNil(t, rec.PostAfter) {
		assert.Equal(t, "T2", rec.PostAfter.Title)
		assert.True(t, rec.PostAfter.Published)
	}

	_, _, err = s.UpdatePost("nope", PostUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost_CascadesComments(t *testing.T) {
	s := newTestStore()

	u, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	p1, _, _ := s.CreatePost(PostCreate{Title: "One", Body: "", Published: true, Author: u.ID})
	p2, _, _ := s.CreatePost(PostCreate{Title: "Two", Body: "", Published: true, Author: u.ID})
	_, _, err := s.CreateComment(CommentCreate{Text: "on one", Author: u.ID, Post: p1.ID})
	assert.NoError(t, err)
	keep, _, err := s.CreateComment(CommentCreate{Text: "on two", Author: u.ID, Post: p2.ID})
	assert.NoError(t, err)

	got, rec, err := s.DeletePost(p1.ID)
	assert.NoError(t, err)
	assert.Equal(t, p1.ID, got.ID)
	assert.Equal(t, OpDelete, rec.Op)
	if assert.NotNil(t, rec.PostBefore) {
		assert.Equal(t, p1.ID, rec.PostBefore.ID)
	}
	assert.Nil(t, rec.PostAfter)

	assert.Empty(t, s.CommentsByPost(p1.ID))
	_, ok := s.CommentByID(keep.ID)
	assert.True(t, ok, "comments on other posts must survive")

	_, _, err = s.DeletePost(p1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateComment_RequiresPublishedPostAndAuthor(t *testing.T) {
	s := newTestStore()

	u, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	draft, _, _ := s.CreatePost(PostCreate{Title: "Draft", Body: "", Published: false, Author: u.ID})
	live, _, _ := s.CreatePost(PostCreate{Title: "Live", Body: "", Published: true, Author: u.ID})

	_, _, err := s.CreateComment(CommentCreate{Text: "x", Author: u.ID, Post: draft.ID})
	assert.ErrorIs(t, err, ErrValidation, "comment on unpublished post")
	_, _, err = s.CreateComment(CommentCreate{Text: "x", Author: "ghost", Post: live.ID})
	assert.ErrorIs(t, err, ErrValidation, "comment by unknown author")
	_, _, err = s.CreateComment(CommentCreate{Text: "x", Author: u.ID, Post: "ghost"})
	assert.ErrorIs(t, err, ErrValidation, "comment on unknown post")
	assert.Empty(t, s.Comments(), "store must be untouched after rejected creates")

	c, rec, err := s.CreateComment(CommentCreate{Text: "hello", Author: u.ID, Post: live.ID})
	assert.NoError(t, err)
	assert.Equal(t, KindComment, rec.Kind)
	assert.Equal(t, OpCreate, rec.Op)
	assert.Nil(t, rec.CommentBefore)
	if assert.NotNil(t, rec.CommentAfter) {
		assert.Equal(t, c.ID, rec.CommentAfter.ID)
	}
}

func TestUpdateAndDeleteComment(t *testing.T) {
	s := newTestStore()

	u, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	p, _, _ := s.CreatePost(PostCreate{Title: "T", Body: "", Published: true, Author: u.ID})
	c, _, _ := s.CreateComment(CommentCreate{Text: "old", Author: u.ID, Post: p.ID})

	text := "new"
	got, rec, err := s.UpdateComment(c.ID, CommentUpdate{Text: &text})
	if err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
	if got.Text != "new" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if rec.CommentBefore.Text != "old" || rec.CommentAfter.Text != "new" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Absent text leaves the comment alone.
	same, _, err := s.UpdateComment(c.ID, CommentUpdate{})
	if err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
	if same.Text != "new" {
		t.Fatalf("unexpected text after empty update: %q", same.Text)
	}

	del, rec, err := s.DeleteComment(c.ID)
	if err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}
	if del.ID != c.ID || rec.Op != OpDelete || rec.CommentAfter != nil {
		t.Fatalf("unexpected delete result: %+v %+v", del, rec)
	}
	if _, _, err := s.DeleteComment(c.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQueries_SubstringFilters(t *testing.T) {
	s := newTestStore()

	ana, _ := s.CreateUser(UserCreate{Name: "Ana", Email: "ana@x.com"})
	_, _ = s.CreateUser(UserCreate{Name: "Borko", Email: "borko@x.com"})

	_, _, _ = s.CreatePost(PostCreate{Title: "GraphQL 101", Body: "intro", Published: true, Author: ana.ID})
	_, _, _ = s.CreatePost(PostCreate{Title: "Cooking", Body: "about graphql actually", Published: true, Author: ana.ID})
	_, _, _ = s.CreatePost(PostCreate{Title: "Music", Body: "none", Published: false, Author: ana.ID})

	assert.Len(t, s.Users(""), 2)
	assert.Len(t, s.Users("an"), 1)
	assert.Len(t, s.Users("AN"), 1)

	assert.Len(t, s.Posts(""), 3)
	assert.Len(t, s.Posts("graphql"), 2, "matches title or body")
	assert.Len(t, s.Posts("music"), 1)
}
