package repository

import (
	"database/sql"
	"errors"

	"socialposts/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int64) (*models.Post, error)
	List(limit, offset int) ([]*models.Post, error)
	ListByUser(userID int64, limit, offset int) ([]*models.Post, error)
	Count() (int64, error)
	CountByUser(userID int64) (int64, error)
	Update(post *models.Post) error
	Delete(id int64) error
}

type postRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostRepository(db *sqlx.DB, logger *zap.Logger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

// postColumns joins the author so a single query fills models.Post.Author.
const postColumns = `
	p.id, p.text, p.user_id, p.created_at, p.updated_at,
	u.id AS "author.id", u.username AS "author.username"`

func (r *postRepository) Create(post *models.Post) error {
	query := `INSERT INTO posts (text, user_id) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(query, post.Text, post.UserID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(id int64) (*models.Post, error) {
	var post models.Post
	query := `SELECT ` + postColumns + ` FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = $1`
	err := r.db.Get(&post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`
	err := r.db.Select(&posts, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUser(userID int64, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	err := r.db.Select(&posts, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM posts`)
	return count, err
}

func (r *postRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID)
	return count, err
}

func (r *postRepository) Update(post *models.Post) error {
	query := `UPDATE posts SET text = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`
	err := r.db.QueryRowx(query, post.Text, post.ID).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the post and all of its comments atomically.
func (r *postRepository) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id)
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

	return tx.Commit()
}
