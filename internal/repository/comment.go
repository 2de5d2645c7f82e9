package repository

import (
	"database/sql"
	"errors"

	"socialposts/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int64) (*models.Comment, error)
	ListByPost(postID int64) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int64) error
	CountByPost(postID int64) (int64, error)
}

type commentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCommentRepository(db *sqlx.DB, logger *zap.Logger) CommentRepository {
	return &commentRepository{db: db, logger: logger}
}

const commentColumns = `
	c.id, c.text, c.post_id, c.user_id, c.created_at,
	u.id AS "author.id", u.username AS "author.username"`

func (r *commentRepository) Create(comment *models.Comment) error {
	query := `INSERT INTO comments (text, post_id, user_id) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowx(query, comment.Text, comment.PostID, comment.UserID).
		Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(id int64) (*models.Comment, error) {
	var comment models.Comment
	query := `SELECT ` + commentColumns + ` FROM comments c JOIN users u ON u.id = c.user_id WHERE c.id = $1`
	err := r.db.Get(&comment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments oldest first. The ordering is part of
// the listing contract, with id as the tie breaker for equal timestamps.
func (r *commentRepository) ListByPost(postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`
	err := r.db.Select(&comments, query, postID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(comment *models.Comment) error {
	result, err := r.db.Exec(`UPDATE comments SET text = $1 WHERE id = $2`, comment.Text, comment.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) CountByPost(postID int64) (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID)
	return count, err
}
