package service_test

import (
	"sort"
	"time"

	"socialposts/internal/models"
	"socialposts/internal/repository"
)

// memStore backs the fake repositories. It honors the same ordering and
// sentinel-error contracts as the Postgres implementations so the services can
// be exercised without a database. The clock advances one second per insert so
// every row gets a distinct created_at; a preset CreatedAt is kept as-is,
// letting tests insert rows out of chronological order.
type memStore struct {
	users    map[int64]*models.User
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	nextID   int64
	now      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*models.User),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		now:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) author(userID int64) models.UserInfo {
	if u, ok := m.users[userID]; ok {
		return models.UserInfo{ID: u.ID, Username: u.Username}
	}
	return models.UserInfo{}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = r.s.tick()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(id int64) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsername(username string) (bool, error) {
	_, err := r.GetByUsername(username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) List() ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		copy := *u
		users = append(users, &copy)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for _, p := range r.s.posts {
		if p.UserID == id {
			return repository.ErrReferenced
		}
	}
	for _, c := range r.s.comments {
		if c.UserID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteWithPosts(id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for postID, p := range r.s.posts {
		if p.UserID != id {
			continue
		}
		for commentID, c := range r.s.comments {
			if c.PostID == postID {
				delete(r.s.comments, commentID)
			}
		}
		delete(r.s.posts, postID)
	}
	for commentID, c := range r.s.comments {
		if c.UserID == id {
			delete(r.s.comments, commentID)
		}
	}
	delete(r.s.users, id)
	return nil
}

type fakePostRepo struct{ s *memStore }

func (r *fakePostRepo) Create(post *models.Post) error {
	post.ID = r.s.id()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.s.tick()
	}
	post.UpdatedAt = post.CreatedAt
	stored := *post
	r.s.posts[post.ID] = &stored
	return nil
}

func (r *fakePostRepo) GetByID(id int64) (*models.Post, error) {
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	copy.Author = r.s.author(p.UserID)
	return &copy, nil
}

func (r *fakePostRepo) sorted(filter func(*models.Post) bool) []*models.Post {
	var posts []*models.Post
	for _, p := range r.s.posts {
		if filter(p) {
			copy := *p
			copy.Author = r.s.author(p.UserID)
			posts = append(posts, &copy)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func page(posts []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(posts) {
		return nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func (r *fakePostRepo) List(limit, offset int) ([]*models.Post, error) {
	return page(r.sorted(func(*models.Post) bool { return true }), limit, offset), nil
}

func (r *fakePostRepo) ListByUser(userID int64, limit, offset int) ([]*models.Post, error) {
	return page(r.sorted(func(p *models.Post) bool { return p.UserID == userID }), limit, offset), nil
}

func (r *fakePostRepo) Count() (int64, error) {
	return int64(len(r.s.posts)), nil
}

func (r *fakePostRepo) CountByUser(userID int64) (int64, error) {
	var count int64
	for _, p := range r.s.posts {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) Update(post *models.Post) error {
	stored, ok := r.s.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Text = post.Text
	stored.UpdatedAt = r.s.tick()
	post.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakePostRepo) Delete(id int64) error {
	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	for commentID, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, commentID)
		}
	}
	delete(r.s.posts, id)
	return nil
}

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	comment.ID = r.s.id()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.s.tick()
	}
	stored := *comment
	r.s.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetByID(id int64) (*models.Comment, error) {
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *c
	copy.Author = r.s.author(c.UserID)
	return &copy, nil
}

func (r *fakeCommentRepo) ListByPost(postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			copy := *c
			copy.Author = r.s.author(c.UserID)
			comments = append(comments, &copy)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (r *fakeCommentRepo) Update(comment *models.Comment) error {
	stored, ok := r.s.comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Text = comment.Text
	return nil
}

func (r *fakeCommentRepo) Delete(id int64) error {
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByPost(postID int64) (int64, error) {
	var count int64
	for _, c := range r.s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}
