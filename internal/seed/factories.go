// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	// hash is computed once; bcrypt per user dominates seeding time otherwise.
	hash string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(seed))}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	if f.opts.SkipBcrypt {
		f.hash = "seed-" + DefaultPassword
		return f.hash, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// CreateUser persists a user with a unique fake username.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := gofakeit.FirstName(), gofakeit.LastName()
	username := strings.ToLower(fmt.Sprintf("%s.%s%d", first, last, f.rnd.Intn(10000)))
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hash,
		FirstName: first,
		LastName:  last,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// BuildPost returns an unsaved post by author dated within the last MaxDays.
// A nil group leaves the post ungrouped.
func (f *Factory) BuildPost(author *models.User, group *models.Group) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rnd.Intn(maxDays*24*60)) * time.Minute

	post := &models.Post{
		Text:     gofakeit.Paragraph(1, f.rnd.Intn(4)+1, 12, " "),
		AuthorID: author.ID,
		PubDate:  time.Now().UTC().Add(-back),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePostsBatch persists posts in batches of BatchSize.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	size := f.opts.BatchSize
	if size <= 0 {
		size = 100
	}
	return f.db.CreateInBatches(posts, size).Error
}

// CreateComment adds a fake comment by author to post, dated after the post.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	created := post.PubDate.Add(time.Duration(f.rnd.Intn(72*60)+1) * time.Minute)
	if now := time.Now().UTC(); created.After(now) {
		created = now
	}
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Text:     gofakeit.Sentence(f.rnd.Intn(10) + 3),
		Created:  created,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow subscribes user to author.
func (f *Factory) Follow(user, author *models.User) error {
	return f.db.Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error
}
