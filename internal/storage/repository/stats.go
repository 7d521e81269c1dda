package repository

import (
	"context"
	"fmt"

	"github.com/studentms/studentms/internal/models"
)

// countByQuery выполняет запрос вида "ключ, количество" и собирает результат.
func (s *Storage) countByQuery(ctx context.Context, query string) ([]models.CountByKey, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.CountByKey{}
	for rows.Next() {
		var item models.CountByKey
		if err = rows.Scan(&item.Key, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// GetDashboardStats собирает агрегированную статистику для админ-панели:
// количества по ролям, регистрации за текущий календарный месяц,
// распределения по полу, по месяцам за последние полгода и по возрастным
// корзинам, плюс последние пять записей каждого вида.
func (s *Storage) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "storage.GetDashboardStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stats := &models.DashboardStats{}

	countQuery := `SELECT
			      count(*) FILTER (WHERE role = 'user'),
			      count(*) FILTER (WHERE role = 'admin'),
			      count(*) FILTER (WHERE created_at >= date_trunc('month', now()))
			  FROM users`
	if err := s.DB.QueryRowContext(ctx, countQuery).Scan(
		&stats.TotalUsers, &stats.TotalAdmins, &stats.NewUsersThisMonth); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	studentCountQuery := `SELECT
			      count(*),
			      count(*) FILTER (WHERE created_at >= date_trunc('month', now()))
			  FROM students`
	if err := s.DB.QueryRowContext(ctx, studentCountQuery).Scan(
		&stats.TotalStudents, &stats.NewStudentsThisMonth); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var err error
	stats.UserGenderStats, err = s.countByQuery(ctx,
		`SELECT COALESCE(gender, 'unknown'), count(*) FROM users GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.StudentGenderStats, err = s.countByQuery(ctx,
		`SELECT gender, count(*) FROM students GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats.UsersByMonth, err = s.countByQuery(ctx,
		`SELECT to_char(created_at, 'YYYY-MM'), count(*)
		 FROM users
		 WHERE created_at >= now() - INTERVAL '6 months'
		 GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.StudentsByMonth, err = s.countByQuery(ctx,
		`SELECT to_char(created_at, 'YYYY-MM'), count(*)
		 FROM students
		 WHERE created_at >= now() - INTERVAL '6 months'
		 GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats.UserAgeStats, err = s.countByQuery(ctx,
		`SELECT CASE
			      WHEN age < 25 THEN '18-24'
			      WHEN age < 35 THEN '25-34'
			      WHEN age < 45 THEN '35-44'
			      WHEN age < 55 THEN '45-54'
			      ELSE '55+'
			  END, count(*)
		 FROM users
		 WHERE age IS NOT NULL
		 GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.StudentAgeStats, err = s.countByQuery(ctx,
		`SELECT CASE
			      WHEN age < 10 THEN '3-9'
			      WHEN age < 15 THEN '10-14'
			      WHEN age < 18 THEN '15-17'
			      WHEN age < 25 THEN '18-24'
			      ELSE '25+'
			  END, count(*)
		 FROM students
		 GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	recentUsers, _, err := s.ListUsers(ctx, 5, 0, "", "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.RecentUsers = recentUsers

	recentStudents, _, err := s.ListStudents(ctx, 5, 0, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.RecentStudents = recentStudents

	return stats, nil
}
