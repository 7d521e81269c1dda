package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studentms/studentms/internal/models"
)

const userColumns = `uid, username, email, password_hash, phone, age, gender,
			      address, skills, profile_image, role, created_at, updated_at`

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (*models.User, error) {
	u := &models.User{}
	var (
		phone, gender, address sql.NullString
		age                    sql.NullInt64
		skills                 []byte
	)
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
		&phone, &age, &gender, &address, &skills,
		&u.ProfileImage, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	u.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &u.Skills); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает запись целиком.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	skills, err := json.Marshal(user.Skills)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO users (username, email, password_hash, phone, age, gender,
			      address, skills, profile_image, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Phone, user.Age,
		user.Gender, user.Address, skills, user.ProfileImage, user.Role)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByID возвращает пользователя по его UID.
func (s *Storage) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей с необязательным поиском по
// имени или email и фильтром по роли, плюс общее количество подходящих записей.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int, search, role string) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := []string{"TRUE"}
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if role != "" {
		args = append(args, role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users WHERE `+cond+`
			  ORDER BY created_at DESC
			  LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UpdateUser применяет частичное обновление профиля: nil-поля не изменяются.
func (s *Storage) UpdateUser(ctx context.Context, uid string, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var skills []byte
	if upd.Skills != nil {
		var err error
		if skills, err = json.Marshal(upd.Skills); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	query := `UPDATE users
			  SET username = COALESCE($1, username),
			      phone = COALESCE($2, phone),
			      age = COALESCE($3, age),
			      gender = COALESCE($4, gender),
			      address = COALESCE($5, address),
			      skills = COALESCE($6, skills),
			      profile_image = COALESCE($7, profile_image),
			      updated_at = now()
			  WHERE uid = $8
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		upd.Username, upd.Phone, upd.Age, upd.Gender, upd.Address, skills,
		upd.ProfileImage, uid)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserRole меняет роль пользователя и возвращает обновлённую запись.
func (s *Storage) UpdateUserRole(ctx context.Context, uid, role string) (*models.User, error) {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1, updated_at = now()
			  WHERE uid = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, role, uid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DeleteUser удаляет пользователя по UID и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, uid string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
