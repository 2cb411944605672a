package dto

// StudentDashboardResponse aggregates a student's progress and the current question.
type StudentDashboardResponse struct {
	User UserResponse `json:"user"`
	SubmissionSummary
	Submissions   []SubmissionResponse `json:"submissions"`
	TodayQuestion *QuestionResponse    `json:"todayQuestion"`
}

// AdminDashboardResponse carries platform-wide counts.
type AdminDashboardResponse struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalQuestions int64 `json:"totalQuestions"`
	TotalStudents  int64 `json:"totalStudents"`
	TotalFaculty   int64 `json:"totalFaculty"`
}

// FacultyDashboardResponse carries the counts shown to faculty members.
type FacultyDashboardResponse struct {
	TotalStudents    int64 `json:"totalStudents"`
	TotalQuestions   int64 `json:"totalQuestions"`
	TotalSubmissions int64 `json:"totalSubmissions"`
}

// StudentOverviewResponse is the faculty view of a single student.
type StudentOverviewResponse struct {
	Student     UserResponse         `json:"student"`
	Summary     SubmissionSummary    `json:"summary"`
	Submissions []SubmissionResponse `json:"submissions"`
}
