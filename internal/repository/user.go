package repository

import (
	"database/sql"
	"errors"

	"socialposts/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int64) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	List() ([]*models.User, error)
	Update(user *models.User) error
	Delete(id int64) error
	DeleteWithPosts(id int64) error
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash, bio) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowx(query, user.Username, user.Email, user.PasswordHash, user.Bio).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateUserError(err)
	}
	return nil
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, bio, created_at FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, bio, created_at FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	err := r.db.Get(&exists, query, username)
	return exists, err
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	err := r.db.Get(&exists, query, email)
	return exists, err
}

func (r *userRepository) List() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT id, username, email, password_hash, bio, created_at FROM users ORDER BY id`
	err := r.db.Select(&users, query)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(user *models.User) error {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, bio = $4 WHERE id = $5`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.Bio, user.ID)
	if err != nil {
		return translateUserError(err)
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

func (r *userRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateUserError(err)
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

// DeleteWithPosts removes the user together with their posts and every comment
// hanging off them. Children go first so the plain foreign keys never block the
// delete; the whole chain is one transaction.
func (r *userRepository) DeleteWithPosts(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE user_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE user_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
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
