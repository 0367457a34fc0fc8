package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/rbac"
)

var (
	ErrNotFound           = db.ErrNotFound
	ErrEmailTaken         = errors.New("users: email already registered")
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	ErrLastAdmin          = errors.New("users: cannot demote the last admin")
	ErrInvalidImport      = errors.New("users: invalid import row")
)

type User struct {
	ID           string   `db:"id" json:"id"`
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	FullName     string   `db:"full_name" json:"full_name"`
	Role         string   `db:"role" json:"role"`
	Stream       *string  `db:"stream" json:"stream"`
	ClassLevel   *int     `db:"class_level" json:"class_level"`
	SubjectsRaw  *string  `db:"subjects" json:"-"`
	Subjects     []string `db:"-" json:"subjects"`
	CreatedAt    string   `db:"created_at" json:"created_at"`
}

func (u *User) decode() {
	u.Subjects = []string{}
	if u.SubjectsRaw != nil && *u.SubjectsRaw != "" {
		_ = json.Unmarshal([]byte(*u.SubjectsRaw), &u.Subjects)
	}
}

const userCols = `id, email, password_hash, full_name, role, stream, class_level, subjects, created_at`

type Store struct {
	db db.Adapter
}

func NewStore(a db.Adapter) *Store { return &Store{db: a} }

// Create inserts u with a fresh id. PasswordHash must already be set.
func (s *Store) Create(ctx context.Context, u *User) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = rbac.RoleStudent
	}
	if _, err := s.ByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = db.Now()
	if u.Subjects == nil {
		u.Subjects = []string{}
	}
	subj, _ := json.Marshal(u.Subjects)
	raw := string(subj)
	u.SubjectsRaw = &raw

	_, err := s.db.Exec(ctx, `INSERT INTO users (`+userCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.Stream, u.ClassLevel, raw, u.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.db.Get(ctx, &u, `SELECT `+userCols+` FROM users WHERE email = ?`, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	u.decode()
	return &u, nil
}

func (s *Store) ByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.Get(ctx, &u, `SELECT `+userCols+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	u.decode()
	return &u, nil
}

// Principal implements authmw.PrincipalLookup.
func (s *Store) Principal(ctx context.Context, id string) (authmw.Principal, error) {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return authmw.Principal{}, err
	}
	return authmw.Principal{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown email or a wrong
// password alike.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.ByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !authmw.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Store) List(ctx context.Context, role string) ([]User, error) {
	q := `SELECT ` + userCols + ` FROM users`
	var args []any
	if role != "" {
		q += ` WHERE role = ?`
		args = append(args, role)
	}
	q += ` ORDER BY email`
	out := []User{}
	if err := s.db.Select(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].decode()
	}
	return out, nil
}

// UpdateRole refuses to leave the system without an admin.
func (s *Store) UpdateRole(ctx context.Context, id, role string) error {
	return s.db.WithTx(ctx, func(q db.Querier) error {
		var current string
		if err := q.Get(ctx, &current, `SELECT role FROM users WHERE id = ?`, id); err != nil {
			return err
		}
		if current == rbac.RoleAdmin && role != rbac.RoleAdmin {
			var admins int
			if err := q.Get(ctx, &admins, `SELECT COUNT(*) FROM users WHERE role = ?`, rbac.RoleAdmin); err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		_, err := q.Exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
		return err
	})
}

func (s *Store) SetPassword(ctx context.Context, id, hash string) error {
	res, err := s.db.Exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.Get(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

// ImportRow is one line of a bulk user import. Password is required for
// new accounts and optional for existing ones.
type ImportRow struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// Import creates or updates users keyed by email in one transaction. The
// whole batch is rejected if it would demote every admin.
func (s *Store) Import(ctx context.Context, rows []ImportRow) (inserted, updated int, err error) {
	err = s.db.WithTx(ctx, func(q db.Querier) error {
		inserted, updated = 0, 0
		var adminsBefore int
		if err := q.Get(ctx, &adminsBefore, `SELECT COUNT(*) FROM users WHERE role = ?`, rbac.RoleAdmin); err != nil {
			return err
		}
		for i, r := range rows {
			email := strings.ToLower(strings.TrimSpace(r.Email))
			if email == "" {
				return fmt.Errorf("row %d: email required: %w", i+1, ErrInvalidImport)
			}
			role := strings.ToLower(strings.TrimSpace(r.Role))
			if role == "" {
				role = rbac.RoleStudent
			}
			if !rbac.ValidRole(role) {
				return fmt.Errorf("row %d: invalid role %q: %w", i+1, role, ErrInvalidImport)
			}
			var hash string
			if r.Password != "" {
				h, err := authmw.HashPassword(r.Password)
				if err != nil {
					return err
				}
				hash = h
			}

			var id string
			switch err := q.Get(ctx, &id, `SELECT id FROM users WHERE email = ?`, email); {
			case err == nil:
				if r.FullName != "" {
					if _, err := q.Exec(ctx, `UPDATE users SET full_name = ? WHERE id = ?`, r.FullName, id); err != nil {
						return err
					}
				}
				if _, err := q.Exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id); err != nil {
					return err
				}
				if hash != "" {
					if _, err := q.Exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id); err != nil {
						return err
					}
				}
				updated++
			case errors.Is(err, ErrNotFound):
				if hash == "" {
					return fmt.Errorf("row %d: password required for new user %s: %w", i+1, email, ErrInvalidImport)
				}
				name := r.FullName
				if name == "" {
					name = email
				}
				if _, err := q.Exec(ctx, `INSERT INTO users (`+userCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					uuid.NewString(), email, hash, name, role, nil, nil, "[]", db.Now()); err != nil {
					return err
				}
				inserted++
			default:
				return err
			}
		}

		var admins int
		if err := q.Get(ctx, &admins, `SELECT COUNT(*) FROM users WHERE role = ?`, rbac.RoleAdmin); err != nil {
			return err
		}
		if adminsBefore > 0 && admins == 0 {
			return ErrLastAdmin
		}
		return nil
	})
	return inserted, updated, err
}
