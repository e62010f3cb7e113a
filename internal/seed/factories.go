// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tracemap/internal/models"
	"tracemap/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		ID:    uuid.NewString(),
		Name:  service.RandomNickname(),
		Email: gofakeit.Email(),
		Image: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Name, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTrace constructs and persists a trace left by the given user,
// scattered around the configured center point.
func (f *Factory) CreateTrace(user *models.User, overrides ...func(*models.Trace)) (*models.Trace, error) {
	trace := &models.Trace{
		UserID:    user.ID,
		Title:     gofakeit.Sentence(4),
		Content:   gofakeit.Paragraph(1, 2, 8, "\n"),
		Latitude:  f.opts.CenterLat + f.jitter(),
		Longitude: f.opts.CenterLng + f.jitter(),
	}

	if f.rng.Intn(3) == 0 {
		trace.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	trace.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(trace)
	}

	if f.opts.DryRun {
		trace.ID = uuid.NewString()
		log.Printf("[dry-run] CreateTrace: user=%s title=%q at (%.4f, %.4f)", trace.UserID, trace.Title, trace.Latitude, trace.Longitude)
		return trace, nil
	}

	if err := f.db.Create(trace).Error; err != nil {
		return nil, err
	}
	return trace, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided trace authored by the provided user.
func (f *Factory) CreateComment(user *models.User, trace *models.Trace, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		TraceID: trace.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		comment.ID = uuid.NewString()
		log.Printf("[dry-run] CreateComment: user=%s trace=%s", comment.UserID, comment.TraceID)
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply persists a reply to the given root comment.
func (f *Factory) CreateReply(user *models.User, parent *models.Comment) (*models.Comment, error) {
	trace := &models.Trace{ID: parent.TraceID}
	return f.CreateComment(user, trace, func(c *models.Comment) {
		c.ParentID = &parent.ID
	})
}

// jitter returns a coordinate offset of up to roughly half a degree, keeping
// seeded traces inside the default discovery radius of the center.
func (f *Factory) jitter() float64 {
	return (f.rng.Float64() - 0.5)
}
