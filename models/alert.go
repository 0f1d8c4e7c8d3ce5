package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alert is a double-opt-in email subscription. The token doubles as the
// confirm and unsubscribe handle.
type Alert struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Token       uuid.UUID  `json:"token" db:"token"`
	IsConfirmed bool       `json:"is_confirmed" db:"is_confirmed"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CompanyName string     `json:"company_name" db:"company_name"`
	TitleQuery  string     `json:"title_query" db:"title_query"`
	City        string     `json:"city" db:"city"`
	TechTag     string     `json:"tech_tag" db:"tech_tag"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at" db:"confirmed_at"`
	LastSentAt  *time.Time `json:"last_sent_at" db:"last_sent_at"`
}

// Matches reports whether a posting falls inside the alert's filter.
// Empty filter fields match everything.
func (a *Alert) Matches(job *Job) bool {
	if a.CompanyName != "" && !strings.EqualFold(a.CompanyName, job.CompanyName) {
		return false
	}
	if a.City != "" && !strings.EqualFold(a.City, job.City) {
		return false
	}
	if a.TitleQuery != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(a.TitleQuery)) {
		return false
	}
	if a.TechTag != "" {
		found := false
		for _, tag := range strings.Split(job.TechTags, "|") {
			if strings.EqualFold(tag, a.TechTag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
