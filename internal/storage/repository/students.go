package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/studentms/studentms/internal/models"
)

const studentColumns = `uid, firstname, lastname, email, phone, gender, age,
			      profile_image, created_at, updated_at`

func scanStudent(row userRow) (*models.Student, error) {
	st := &models.Student{}
	if err := row.Scan(&st.UID, &st.Firstname, &st.Lastname, &st.Email, &st.Phone,
		&st.Gender, &st.Age, &st.ProfileImage, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return st, nil
}

// CreateStudent сохраняет новую запись студента и возвращает её целиком.
func (s *Storage) CreateStudent(ctx context.Context, st models.Student) (*models.Student, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO students (firstname, lastname, email, phone, gender, age, profile_image)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + studentColumns
	row := s.DB.QueryRowContext(ctx, query,
		st.Firstname, st.Lastname, st.Email, st.Phone, st.Gender, st.Age, st.ProfileImage)
	created, err := scanStudent(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetStudentByID возвращает студента по его UID.
func (s *Storage) GetStudentByID(ctx context.Context, uid string) (*models.Student, error) {
	const op = "storage.GetStudentByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE uid = $1`
	st, err := scanStudent(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// ListStudents возвращает страницу студентов с необязательным поиском по
// имени, фамилии или email, плюс общее количество подходящих записей.
func (s *Storage) ListStudents(ctx context.Context, limit, offset int, search string) ([]*models.Student, int, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := []string{"TRUE"}
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf(
			"(firstname ILIKE $%d OR lastname ILIKE $%d OR email ILIKE $%d)",
			len(args), len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM students WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+studentColumns+` FROM students WHERE `+cond+`
			  ORDER BY created_at DESC
			  LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UpdateStudent применяет частичное обновление записи: nil-поля не изменяются.
func (s *Storage) UpdateStudent(ctx context.Context, uid string, upd models.StudentUpdate) (*models.Student, error) {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE students
			  SET firstname = COALESCE($1, firstname),
			      lastname = COALESCE($2, lastname),
			      phone = COALESCE($3, phone),
			      gender = COALESCE($4, gender),
			      age = COALESCE($5, age),
			      profile_image = COALESCE($6, profile_image),
			      updated_at = now()
			  WHERE uid = $7
			  RETURNING ` + studentColumns
	row := s.DB.QueryRowContext(ctx, query,
		upd.Firstname, upd.Lastname, upd.Phone, upd.Gender, upd.Age, upd.ProfileImage, uid)
	st, err := scanStudent(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// DeleteStudent удаляет студента по UID и возвращает количество удалённых строк.
func (s *Storage) DeleteStudent(ctx context.Context, uid string) (int, error) {
	const op = "storage.DeleteStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM students WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
