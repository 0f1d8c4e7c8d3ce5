package models

import "time"

// DailyStat is one (company, source, date) snapshot row.
type DailyStat struct {
	StatDate    time.Time `json:"stat_date" db:"stat_date"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Source      Source    `json:"source" db:"source"`
	ActiveJobs  int       `json:"active_jobs" db:"active_jobs"`
	NewJobs     int       `json:"new_jobs" db:"new_jobs"`
	ClosedJobs  int       `json:"closed_jobs" db:"closed_jobs"`
	NetChange   int       `json:"net_change" db:"net_change"`
}

// CompanyStat is a snapshot row with momentum attached, as served by the
// query facade.
type CompanyStat struct {
	CompanyName string `json:"company_name"`
	Source      Source `json:"source"`
	ActiveJobs  int    `json:"active_jobs"`
	NewJobs     int    `json:"new_jobs"`
	ClosedJobs  int    `json:"closed_jobs"`
	NetChange   int    `json:"net_change"`
	Momentum    int    `json:"momentum"`
}

// HistoryPoint is one date in a company's history, summed across sources.
type HistoryPoint struct {
	Date       time.Time `json:"date"`
	ActiveJobs int       `json:"active_jobs"`
	NewJobs    int       `json:"new_jobs"`
	ClosedJobs int       `json:"closed_jobs"`
	NetChange  int       `json:"net_change"`
	Momentum   int       `json:"momentum"`
}

// SummaryStats aggregates the trailing window across all companies.
type SummaryStats struct {
	TotalActive      int `json:"total_active"`
	TotalNew         int `json:"total_new"`
	CompaniesTracked int `json:"companies_tracked"`
	WindowDays       int `json:"window_days"`
}

// JobFilter narrows search results. Zero values mean "any".
type JobFilter struct {
	CompanyName string `json:"company_name"`
	City        string `json:"city"`
	TitleQuery  string `json:"title_query"`
	Department  string `json:"department"`
	TechTag     string `json:"tech_tag"`
	Limit       int    `json:"limit"`
}

// DepartmentCount is a department with its active posting count.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}
