package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/templates"
	"github.com/Govind-619/Bookstore/utils"
	"gorm.io/gorm"
)

// Job names accepted by Jobs.Run
const (
	JobCleanUnconfirmedUsers = "clean_unconfirmed_users"
	JobSendNewsletter        = "send_newsletter"
	JobActivityReport        = "activity_report"
)

// NewsletterSubject is the subject line of the weekly newsletter
const NewsletterSubject = "Bookstore Newsletter - Special offers!"

// JobsConfig configures the maintenance jobs
type JobsConfig struct {
	UnconfirmedUserTTL time.Duration
	NewsletterMinAge   time.Duration
	ReportsDir         string
	BaseURL            string
	// Now defaults to time.Now
	Now func() time.Time
}

// Jobs runs the periodic maintenance tasks
type Jobs struct {
	db       *gorm.DB
	mailer   Mailer
	renderer Renderer
	cfg      JobsConfig
}

// NewJobs creates the job runner
func NewJobs(db *gorm.DB, mailer Mailer, renderer Renderer, cfg JobsConfig) *Jobs {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Jobs{db: db, mailer: mailer, renderer: renderer, cfg: cfg}
}

// JobNames lists the jobs known to Run
func JobNames() []string {
	names := []string{JobCleanUnconfirmedUsers, JobSendNewsletter, JobActivityReport}
	sort.Strings(names)
	return names
}

// Run executes the named job and returns its result
func (j *Jobs) Run(ctx context.Context, name string) (any, error) {
	start := time.Now()
	var (
		result any
		err    error
	)
	switch name {
	case JobCleanUnconfirmedUsers:
		result, err = j.CleanUnconfirmedUsers(ctx)
	case JobSendNewsletter:
		result, err = j.SendNewsletter(ctx)
	case JobActivityReport:
		var report *ActivityReport
		report, _, err = j.GenerateActivityReport(ctx)
		result = report
	default:
		return nil, utils.NotFoundError(fmt.Sprintf("unknown job %q", name), nil)
	}

	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		jobRuns.WithLabelValues(name, "failure").Inc()
		utils.LogError("Job %s failed: %v", name, err)
		return nil, err
	}
	jobRuns.WithLabelValues(name, "success").Inc()
	return result, nil
}

// CleanUnconfirmedUsers deletes accounts that never confirmed their e-mail
// within the configured TTL, together with their view history
func (j *Jobs) CleanUnconfirmedUsers(ctx context.Context) (int64, error) {
	cutoff := j.cfg.Now().Add(-j.cfg.UnconfirmedUserTTL)

	var deleted int64
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Unscoped().Model(&models.User{}).
			Where("email_confirmed = ? AND created_at <= ?", false, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("user_id IN ?", ids).Delete(&models.BookView{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).Where("user_id IN ?", ids).Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("user_id IN ?", ids).Update("user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.User{}, ids)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clean unconfirmed users: %w", err)
	}

	utils.LogInfo("Deleted %d users without a confirmed e-mail", deleted)
	return deleted, nil
}

// NewsletterEmail is the data passed to the newsletter template
type NewsletterEmail struct {
	User    models.User
	BaseURL string
}

// SendNewsletter mails the newsletter to every user registered for longer
// than the configured minimum age. Failed deliveries are logged and skipped.
func (j *Jobs) SendNewsletter(ctx context.Context) (int, error) {
	cutoff := j.cfg.Now().Add(-j.cfg.NewsletterMinAge)

	var users []models.User
	if err := j.db.WithContext(ctx).Where("created_at <= ?", cutoff).Order("id").Find(&users).Error; err != nil {
		return 0, fmt.Errorf("load newsletter recipients: %w", err)
	}
	if len(users) == 0 {
		utils.LogWarning("No users eligible for the newsletter")
		return 0, nil
	}

	sent := 0
	for _, user := range users {
		body, err := j.renderer.Render(templates.Newsletter, NewsletterEmail{User: user, BaseURL: j.cfg.BaseURL})
		if err != nil {
			return sent, fmt.Errorf("render newsletter: %w", err)
		}
		if err := j.mailer.Send(ctx, user.Email, NewsletterSubject, body); err != nil {
			utils.LogError("Failed to send newsletter to %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	utils.LogInfo("Newsletter sent to %d users", sent)
	return sent, nil
}

// GenerateActivityReport builds today's report and writes it as text to the
// reports directory, returning the report and the file path
func (j *Jobs) GenerateActivityReport(ctx context.Context) (*ActivityReport, string, error) {
	report, err := j.BuildActivityReport(ctx, j.cfg.Now())
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(j.cfg.ReportsDir, 0755); err != nil {
		return nil, "", fmt.Errorf("create reports directory: %w", err)
	}
	path := filepath.Join(j.cfg.ReportsDir, fmt.Sprintf("report_%s.txt", report.Date.Format("2006-01-02")))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteText(f); err != nil {
		return nil, "", fmt.Errorf("write report: %w", err)
	}

	utils.LogInfo("Activity report generated and saved to %s", path)
	return report, path, nil
}

// BuildActivityReport counts the activity of the day containing day
func (j *Jobs) BuildActivityReport(ctx context.Context, day time.Time) (*ActivityReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	report := &ActivityReport{Date: start}

	db := j.db.WithContext(ctx)
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &report.NewUsers},
		{&models.Book{}, &report.BooksCreated},
		{&models.Order{}, &report.OrdersPlaced},
		{&models.Review{}, &report.ReviewsAdded},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("created_at >= ? AND created_at < ?", start, end).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("build activity report: %w", err)
		}
	}

	stats, err := AnalyzeLogs(utils.LogsDir(), start)
	if err != nil {
		return nil, fmt.Errorf("analyze logs: %w", err)
	}
	report.Logs = stats
	return report, nil
}
