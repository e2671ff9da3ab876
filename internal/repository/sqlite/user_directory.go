package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

type userDirectory struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserDirectory creates a UserDirectory backed by the users table.
func NewUserDirectory(db *sql.DB) repository.UserDirectory {
	return &userDirectory{db: db, now: time.Now}
}

func (r *userDirectory) Create(ctx context.Context, u models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: nickname=%s, grade=%s, class=%s", u.Nickname, u.Grade, u.Class)

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, nickname, grade, class, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, u.ID, u.Nickname, u.Grade, u.Class, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		log.Debug("nickname already taken: %s", u.Nickname)
		return nil, repository.ErrDuplicateNickname
	}
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, err
	}
	log.Debug("user created: id=%s", u.ID)
	return &u, nil
}

func (r *userDirectory) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%s", id)
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *userDirectory) FindByNickname(ctx context.Context, nickname string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("finding user by nickname: %s", nickname)
	return r.getOne(ctx, squirrel.Eq{"nickname": nickname})
}

func (r *userDirectory) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	sqlStr, args, err := userSelect().Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&u.ID, &u.Nickname, &u.Grade, &u.Class, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userDirectory) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	query := userSelect()
	if filter.Grade != nil {
		query = query.Where(squirrel.Eq{"grade": *filter.Grade})
	}
	if filter.Class != nil {
		query = query.Where(squirrel.Eq{"class": *filter.Class})
	}
	sqlStr, args, err := query.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Nickname, &u.Grade, &u.Class, &u.CreatedAt, &u.UpdatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}

	log.Debug("found %d users", len(users))
	return users, rows.Err()
}

func (r *userDirectory) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user: id=%s", id)

	query := sqlBuilder.Update("users").Set("updated_at", r.now().UTC()).Where(squirrel.Eq{"id": id})
	if update.Nickname != nil {
		query = query.Set("nickname", *update.Nickname)
	}
	if update.Grade != nil {
		query = query.Set("grade", *update.Grade)
	}
	if update.Class != nil {
		query = query.Set("class", *update.Class)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if isUniqueViolation(err) {
		return nil, repository.ErrDuplicateNickname
	}
	if err != nil {
		log.Error("failed to update user: %v", err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("user not found for update: id=%s", id)
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *userDirectory) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user and related data: id=%s", id)

	// Attempts and progress go with the user through ON DELETE CASCADE.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		log.Error("failed to delete user %s: %v", id, err)
		return err
	}
	return nil
}

func userSelect() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "nickname", "grade", "class", "created_at", "updated_at").From("users")
}
