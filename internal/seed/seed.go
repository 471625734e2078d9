package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create comments and likes: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few well-known accounts so local logins are predictable
	if count >= 3 {
		for _, name := range []string{"alice", "bob", "test"} {
			username := name
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = username
				u.Email = fmt.Sprintf("%s@example.com", username)
				u.Bio = "One of the originals."
			})
			if err != nil {
				log.Printf("Failed to create user %s: %v", username, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if len(users) == 0 {
		return nil, fmt.Errorf("cannot create posts without users")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		posts = append(posts, factory.BuildPost(author))
	}

	if len(posts) == 0 {
		return posts, nil
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// createEngagement adds comments and likes across the seeded posts so feeds
// and counters have realistic values.
func createEngagement(factory *Factory, users []*models.User, posts []*models.Post) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var comments, likes int
	for _, post := range posts {
		numComments := r.Intn(6)
		for i := 0; i < numComments; i++ {
			commenter := users[r.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return err
			}
			comments++
		}

		// distinct likers per post; the unique (user_id, post_id) index
		// rejects duplicates
		numLikes := r.Intn(len(users)/2 + 1)
		for _, idx := range r.Perm(len(users))[:numLikes] {
			if err := factory.CreateLike(users[idx], post); err != nil {
				return err
			}
			likes++
		}
	}

	log.Printf("%d comments and %d likes created", comments, likes)
	return nil
}
