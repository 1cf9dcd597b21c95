package data

import (
	"database/sql"
	"fmt"
)

// =============================================================================
// USER REPOSITORY (admin accounts)
// =============================================================================

type UserRepository struct {
	dbtx DBTX
}

func NewUserRepository() *UserRepository {
	return &UserRepository{dbtx: db}
}

func (r *UserRepository) Insert(u User) (int64, error) {
	const stmt = `INSERT INTO users (username, password, role) VALUES (?, ?, ?)`

	result, err := ExecDB(r.dbtx, stmt, u.Username, u.Password, u.Role)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}

	return id, nil
}

func (r *UserRepository) GetByUsername(username string) (*User, error) {
	const stmt = `SELECT id, username, password, role FROM users WHERE username = ?`

	var u User
	err := QueryRowDB(r.dbtx, stmt, username).Scan(&u.ID, &u.Username, &u.Password, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) GetAll() ([]User, error) {
	const stmt = `SELECT id, username, password, role FROM users ORDER BY id`

	rows, err := QueryDB(r.dbtx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return result, nil
}

func (r *UserRepository) Count() (int, error) {
	var count int
	err := QueryRowDB(r.dbtx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) Delete(id int64) error {
	const stmt = `DELETE FROM users WHERE id = ?`

	result, err := ExecDB(r.dbtx, stmt, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
