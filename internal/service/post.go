package service

import (
	"errors"
	"fmt"

	"socialposts/internal/models"
	"socialposts/internal/repository"

	"go.uber.org/zap"
)

var ErrPostNotFound = errors.New("post not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostService handles the post side of the post/comment aggregate: ownership,
// newest-first pagination, and cascade deletion of a post's comments.
type PostService interface {
	List(page, pageSize int) (*models.PostPage, error)
	ListByUser(userID int64, page, pageSize int) (*models.PostPage, error)
	Get(id int64) (*models.Post, error)
	Create(ownerID int64, text string) (*models.Post, error)
	Update(id int64, text string) (*models.Post, error)
	Delete(id int64) error
}

type postService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *zap.Logger) PostService {
	return &postService{posts: posts, users: users, logger: logger}
}

// normalizePage clamps caller-supplied paging values. An out-of-range page is
// not an error; it simply selects an empty slice of the result set.
func normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(totalItems int64, pageSize int) int {
	return int((totalItems + int64(pageSize) - 1) / int64(pageSize))
}

func (s *postService) List(page, pageSize int) (*models.PostPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	total, err := s.posts.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	posts, err := s.posts.List(pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &models.PostPage{
		Posts:      posts,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *postService) ListByUser(userID int64, page, pageSize int) (*models.PostPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	total, err := s.posts.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	posts, err := s.posts.ListByUser(userID, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &models.PostPage{
		Posts:      posts,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *postService) Get(id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Create(ownerID int64, text string) (*models.Post, error) {
	owner, err := s.users.GetByID(ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post := &models.Post{
		Text:   text,
		UserID: owner.ID,
		Author: models.UserInfo{ID: owner.ID, Username: owner.Username},
	}

	if err := s.posts.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post created", zap.Int64("id", post.ID), zap.Int64("user_id", owner.ID))
	return post, nil
}

func (s *postService) Update(id int64, text string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post.Text = text
	if err := s.posts.Update(post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("Post updated", zap.Int64("id", id))
	return post, nil
}

func (s *postService) Delete(id int64) error {
	err := s.posts.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	s.logger.Info("Post and its comments deleted", zap.Int64("id", id))
	return nil
}
