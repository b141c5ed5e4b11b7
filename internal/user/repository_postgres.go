package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	userColumns = `id, phone_number, email, name, date_of_birth, role, image_url, scores, created_at`

	listUsersQuery      = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByPhoneQuery = `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	insertUserQuery     = `
		INSERT INTO users (id, phone_number, email, name, date_of_birth, role, image_url, scores, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	updateUserQuery = `
		UPDATE users
		SET email = $2, name = $3, date_of_birth = $4, role = $5, image_url = $6, scores = $7
		WHERE id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]User, error) {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByPhone(phone string) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByPhoneQuery, phone))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := r.db.Exec(insertUserQuery,
		u.ID, u.PhoneNumber, u.Email, u.Name, u.DateOfBirth, u.Role, u.ImageURL, u.Scores, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, u User) (User, error) {
	res, err := r.db.Exec(updateUserQuery, id, u.Email, u.Name, u.DateOfBirth, u.Role, u.ImageURL, u.Scores)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	u.ID = id
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.Email, &u.Name, &u.DateOfBirth, &u.Role, &u.ImageURL, &u.Scores, &u.CreatedAt)
	return u, err
}
