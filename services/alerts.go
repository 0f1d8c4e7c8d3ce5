package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"hireassist/models"
)

const maxAlertsPerEmail = 3

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AlertStore persists alert subscriptions and serves the day's new postings
// for digest matching.
type AlertStore interface {
	CountActiveAlerts(ctx context.Context, email string) (int, error)
	InsertAlert(ctx context.Context, alert *models.Alert) error
	GetAlertByToken(ctx context.Context, token uuid.UUID) (*models.Alert, error)
	ConfirmAlert(ctx context.Context, id int64, at time.Time) error
	DeactivateAlert(ctx context.Context, id int64) error
	ActiveConfirmedAlerts(ctx context.Context) ([]models.Alert, error)
	MarkAlertSent(ctx context.Context, id int64, at time.Time) error
	JobsFirstSeenOn(ctx context.Context, day time.Time) ([]models.Job, error)
}

// Mailer sends alert emails. The SMTP implementation lives in mailer.go; a
// nil-configured mailer drops messages with a warning instead of failing.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// AlertService implements double-opt-in email alerts over new postings.
// Sole writer of job_alerts.
type AlertService struct {
	store   AlertStore
	mailer  Mailer
	baseURL string
	now     func() time.Time
}

func NewAlertService(store AlertStore, mailer Mailer, baseURL string) *AlertService {
	return &AlertService{store: store, mailer: mailer, baseURL: baseURL, now: time.Now}
}

// Create registers an unconfirmed alert and sends the confirmation email.
// At most 3 active alerts per address.
func (s *AlertService) Create(ctx context.Context, email string, filter models.JobFilter) (*models.Alert, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("invalid email address %q", email)
	}

	count, err := s.store.CountActiveAlerts(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("count alerts for %s: %w", email, err)
	}
	if count >= maxAlertsPerEmail {
		return nil, fmt.Errorf("%s already has %d active alerts", email, maxAlertsPerEmail)
	}

	alert := &models.Alert{
		Email:       email,
		Token:       uuid.New(),
		IsActive:    true,
		CompanyName: filter.CompanyName,
		TitleQuery:  filter.TitleQuery,
		City:        filter.City,
		TechTag:     filter.TechTag,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.InsertAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	if err := s.sendConfirmation(alert); err != nil {
		// The alert is saved; the user can retry via resend later.
		log.Printf("Warning: confirmation email to %s failed: %v", email, err)
	}
	return alert, nil
}

// Confirm flips an alert to confirmed by token. Returns the subscriber
// email, or "" when the token is unknown.
func (s *AlertService) Confirm(ctx context.Context, token uuid.UUID) (string, error) {
	alert, err := s.store.GetAlertByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("lookup alert token: %w", err)
	}
	if alert == nil {
		return "", nil
	}
	if !alert.IsConfirmed {
		if err := s.store.ConfirmAlert(ctx, alert.ID, s.now().UTC()); err != nil {
			return "", fmt.Errorf("confirm alert %d: %w", alert.ID, err)
		}
	}
	return alert.Email, nil
}

// Unsubscribe deactivates an alert by token. Returns the subscriber email,
// or "" when the token is unknown.
func (s *AlertService) Unsubscribe(ctx context.Context, token uuid.UUID) (string, error) {
	alert, err := s.store.GetAlertByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("lookup alert token: %w", err)
	}
	if alert == nil {
		return "", nil
	}
	if err := s.store.DeactivateAlert(ctx, alert.ID); err != nil {
		return "", fmt.Errorf("deactivate alert %d: %w", alert.ID, err)
	}
	return alert.Email, nil
}

// DigestStats summarizes one digest run.
type DigestStats struct {
	AlertsChecked int
	EmailsSent    int
	JobsMatched   int
}

// SendDailyDigests matches the day's new postings against every confirmed
// active alert and emails the matches. One failing alert never blocks the
// rest.
func (s *AlertService) SendDailyDigests(ctx context.Context, day time.Time) (DigestStats, error) {
	var stats DigestStats
	day = truncateToDay(day)

	alerts, err := s.store.ActiveConfirmedAlerts(ctx)
	if err != nil {
		return stats, fmt.Errorf("load alerts: %w", err)
	}
	stats.AlertsChecked = len(alerts)
	if len(alerts) == 0 {
		return stats, nil
	}

	newJobs, err := s.store.JobsFirstSeenOn(ctx, day)
	if err != nil {
		return stats, fmt.Errorf("load new jobs for %s: %w", day.Format("2006-01-02"), err)
	}

	for i := range alerts {
		alert := &alerts[i]
		var matched []*models.Job
		for j := range newJobs {
			if alert.Matches(&newJobs[j]) {
				matched = append(matched, &newJobs[j])
			}
		}
		if len(matched) == 0 {
			continue
		}

		plural := "s"
		if len(matched) == 1 {
			plural = ""
		}
		subject := fmt.Sprintf("%d new job%s matching your HireAssist alert", len(matched), plural)
		if err := s.mailer.Send(alert.Email, subject, s.digestHTML(alert, matched)); err != nil {
			log.Printf("Warning: digest to %s failed: %v", alert.Email, err)
			continue
		}
		if err := s.store.MarkAlertSent(ctx, alert.ID, s.now().UTC()); err != nil {
			log.Printf("Warning: mark alert %d sent failed: %v", alert.ID, err)
		}
		stats.EmailsSent++
		stats.JobsMatched += len(matched)
	}
	return stats, nil
}

func (s *AlertService) sendConfirmation(alert *models.Alert) error {
	confirmURL := fmt.Sprintf("%s/alerts/confirm?token=%s", s.baseURL, alert.Token)
	body := fmt.Sprintf(
		`<p>Confirm your HireAssist job alert by clicking the link below.</p>
<p><a href="%s">Confirm alert</a></p>
<p>If you didn't request this, ignore this email.</p>`, confirmURL)
	return s.mailer.Send(alert.Email, "Confirm your HireAssist job alert", body)
}

func (s *AlertService) digestHTML(alert *models.Alert, jobs []*models.Job) string {
	var b strings.Builder
	b.WriteString("<h2>New jobs matching your alert</h2><ul>")
	for _, job := range jobs {
		loc := job.City
		if loc == "" {
			loc = job.LocationRaw
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a> at %s`, job.URL, job.Title, job.CompanyName)
		if loc != "" {
			fmt.Fprintf(&b, " (%s)", loc)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, `<p><a href="%s/alerts/unsubscribe?token=%s">Unsubscribe</a></p>`, s.baseURL, alert.Token)
	return b.String()
}
