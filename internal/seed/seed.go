package seed

import (
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers       int
	NumPosts       int
	NumComments    int
	FollowsPerUser int
	ShouldClean    bool
	// GroupFixtures is a YAML file path; empty selects the built-in groups.
	GroupFixtures string
	SkipBcrypt    bool
	BatchSize     int
	MaxDays       int
	// RandSeed makes a run reproducible when non-zero.
	RandSeed int64
}

// Result counts what a run created.
type Result struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seed populates db with users, groups, posts, comments and follows.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	logger := middleware.Logger
	logger.Info("seeding database",
		slog.Int("users", opts.NumUsers), slog.Int("posts", opts.NumPosts), slog.Bool("clean", opts.ShouldClean))

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
	}

	fixtures, err := LoadGroupFixtures(opts.GroupFixtures)
	if err != nil {
		return nil, err
	}
	groups, err := Groups(db, fixtures)
	if err != nil {
		return nil, err
	}

	f := NewFactory(db, opts)
	result := &Result{Groups: len(groups)}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			// Username collisions are possible with fake names.
			logger.Warn("skipping seed user", slog.String("error", err.Error()))
			continue
		}
		users = append(users, user)
	}
	result.Users = len(users)
	if len(users) == 0 {
		return result, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts have no group.
		if len(groups) > 0 && f.rnd.Intn(3) > 0 {
			group = &groups[f.rnd.Intn(len(groups))]
		}
		posts = append(posts, f.BuildPost(author, group))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	result.Posts = len(posts)

	if len(posts) > 0 {
		for i := 0; i < opts.NumComments; i++ {
			if _, err := f.CreateComment(posts[f.rnd.Intn(len(posts))], users[f.rnd.Intn(len(users))]); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			result.Comments++
		}
	}

	for _, user := range users {
		for _, idx := range f.rnd.Perm(len(users))[:min(opts.FollowsPerUser, len(users))] {
			author := users[idx]
			if author.ID == user.ID {
				continue
			}
			if err := f.Follow(user, author); err != nil {
				return nil, fmt.Errorf("create follow: %w", err)
			}
			result.Follows++
		}
	}

	logger.Info("seeding completed",
		slog.Int("users", result.Users), slog.Int("groups", result.Groups), slog.Int("posts", result.Posts),
		slog.Int("comments", result.Comments), slog.Int("follows", result.Follows))
	return result, nil
}

// ClearAll deletes every row the application owns, children first.
func ClearAll(db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	for _, model := range []any{&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
