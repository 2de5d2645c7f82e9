package service

import (
	"errors"
	"fmt"

	"socialposts/internal/models"
	"socialposts/internal/repository"

	"go.uber.org/zap"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService handles comments within the post aggregate. Listings are
// always oldest first; a comment cannot exist without its parent post.
type CommentService interface {
	ListByPost(postID int64) ([]*models.Comment, error)
	Get(id int64) (*models.Comment, error)
	Create(postID, authorID int64, text string) (*models.Comment, error)
	Update(id int64, text string) (*models.Comment, error)
	Delete(id int64) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, logger *zap.Logger) CommentService {
	return &commentService{comments: comments, posts: posts, users: users, logger: logger}
}

func (s *commentService) ListByPost(postID int64) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.comments.ListByPost(postID)
}

func (s *commentService) Get(id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Create attaches a new comment to an existing post. The author is the
// authenticated caller, so only the post's existence is re-checked here.
func (s *commentService) Create(postID, authorID int64, text string) (*models.Comment, error) {
	if _, err := s.posts.GetByID(postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	author, err := s.users.GetByID(authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		Text:   text,
		PostID: postID,
		UserID: author.ID,
		Author: models.UserInfo{ID: author.ID, Username: author.Username},
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("Comment created", zap.Int64("id", comment.ID), zap.Int64("post_id", postID))
	return comment, nil
}

func (s *commentService) Update(id int64, text string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment.Text = text
	if err := s.comments.Update(comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	s.logger.Info("Comment updated", zap.Int64("id", id))
	return comment, nil
}

func (s *commentService) Delete(id int64) error {
	err := s.comments.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	s.logger.Info("Comment deleted", zap.Int64("id", id))
	return nil
}
