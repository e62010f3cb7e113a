package seed

import (
	"fmt"
	"log"

	"tracemap/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumTraces   int
	ShouldClean bool
	DryRun      bool

	// Center of the seeded area. Defaults to Seoul City Hall.
	CenterLat float64
	CenterLng float64

	// MaxDays caps how far into the past created_at values are spread.
	MaxDays int
}

// DefaultOptions returns a small, fast preset.
func DefaultOptions() Options {
	return Options{
		NumUsers:  10,
		NumTraces: 40,
		CenterLat: 37.5665,
		CenterLng: 126.9780,
		MaxDays:   90,
	}
}

// Run populates the database with demo users, traces and comment threads.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 || opts.NumTraces <= 0 {
		return fmt.Errorf("seed: NumUsers and NumTraces must be positive")
	}
	if opts.CenterLat == 0 && opts.CenterLng == 0 {
		defaults := DefaultOptions()
		opts.CenterLat = defaults.CenterLat
		opts.CenterLng = defaults.CenterLng
	}

	if opts.ShouldClean && !opts.DryRun {
		if err := Clean(db); err != nil {
			return fmt.Errorf("seed: clean failed: %w", err)
		}
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seed: creating user: %w", err)
		}
		users = append(users, user)
	}

	traces := make([]*models.Trace, 0, opts.NumTraces)
	for i := 0; i < opts.NumTraces; i++ {
		owner := users[factory.rng.Intn(len(users))]
		trace, err := factory.CreateTrace(owner)
		if err != nil {
			return fmt.Errorf("seed: creating trace: %w", err)
		}
		traces = append(traces, trace)
	}

	// Roughly half the traces get a comment thread.
	commented := 0
	for _, trace := range traces {
		if factory.rng.Intn(2) == 0 {
			continue
		}
		commenter := users[factory.rng.Intn(len(users))]
		root, err := factory.CreateComment(commenter, trace)
		if err != nil {
			return fmt.Errorf("seed: creating comment: %w", err)
		}
		commented++

		if factory.rng.Intn(2) == 0 {
			replier := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateReply(replier, root); err != nil {
				return fmt.Errorf("seed: creating reply: %w", err)
			}
		}
	}

	log.Printf("seed: created %d users, %d traces, %d comment threads", len(users), len(traces), commented)
	return nil
}

// Clean removes all seeded data. Comments go first so the trace and user
// deletes never trip foreign keys.
func Clean(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Comment{}, &models.Trace{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
