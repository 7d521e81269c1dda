package models

// CountByKey пара "ключ группировки — количество".
// Используется для распределений по полу, месяцам и возрастным корзинам.
type CountByKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DashboardStats агрегированная статистика для админ-панели.
type DashboardStats struct {
	TotalUsers           int          `json:"total_users"`
	TotalAdmins          int          `json:"total_admins"`
	TotalStudents        int          `json:"total_students"`
	NewUsersThisMonth    int          `json:"new_users_this_month"`
	NewStudentsThisMonth int          `json:"new_students_this_month"`
	UserGenderStats      []CountByKey `json:"user_gender_stats"`
	StudentGenderStats   []CountByKey `json:"student_gender_stats"`
	UsersByMonth         []CountByKey `json:"users_by_month"`
	StudentsByMonth      []CountByKey `json:"students_by_month"`
	UserAgeStats         []CountByKey `json:"user_age_stats"`
	StudentAgeStats      []CountByKey `json:"student_age_stats"`
	RecentUsers          []*User      `json:"recent_users"`
	RecentStudents       []*Student   `json:"recent_students"`
}
