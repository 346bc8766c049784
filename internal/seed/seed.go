// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"recipebox/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	cuisines = []string{
		"Italian", "Mexican", "Thai", "Japanese", "Indian", "French",
		"Greek", "Korean", "Vietnamese", "Ethiopian", "Lebanese", "Spanish",
		"Moroccan", "Turkish", "American", "Chinese", "Peruvian", "Brazilian",
	}

	dishes = []string{
		"Weeknight Carbonara", "Slow-Braised Short Ribs", "Crispy Tofu Bowl",
		"One-Pot Chicken Orzo", "Miso Glazed Salmon", "Smoky Lentil Soup",
		"Sheet Pan Gnocchi", "Garlic Butter Shrimp", "Roasted Cauliflower Tacos",
		"Classic Beef Stew", "Lemon Ricotta Pancakes", "Spicy Peanut Noodles",
		"Herb Crusted Pork Loin", "Summer Panzanella", "Green Curry with Eggplant",
		"Mushroom Risotto", "Shakshuka", "Honey Sesame Chicken",
	}

	ingredientSets = []string{
		"2 cups flour\n1 tsp salt\n3 eggs\n1 cup milk",
		"1 lb chicken thighs\n2 cloves garlic\n1 tbsp olive oil\nfresh thyme",
		"400g spaghetti\n150g pancetta\n3 egg yolks\npecorino romano",
		"1 can chickpeas\n1 onion\n2 tomatoes\ncumin and paprika",
		"2 salmon fillets\n2 tbsp white miso\n1 tbsp mirin\nsesame seeds",
		"1 block firm tofu\n2 tbsp soy sauce\n1 tbsp cornstarch\nscallions",
	}
)

// Seed populates the database with demo users, recipe posts, and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", comments)

	return nil
}

// clearData removes all rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
			Email:    gofakeit.Email(),
			DarkMode: gofakeit.Bool(),
		}
		if err := user.SetPassword("password123"); err != nil {
			return nil, err
		}
		if err := db.Create(user).Error; err != nil {
			// Generated usernames can collide; skip and move on.
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users could be created")
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, count int) ([]*models.Post, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Title:       dishes[r.Intn(len(dishes))],
			Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
			Ingredients: ingredientSets[r.Intn(len(ingredientSets))],
			Cuisine:     cuisines[r.Intn(len(cuisines))],
			CookingTime: gofakeit.Number(10, 180),
			UserID:      author.ID,
			CreatedAt:   time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			comment := &models.Comment{
				Content:   gofakeit.Sentence(gofakeit.Number(5, 15)),
				UserID:    users[r.Intn(len(users))].ID,
				PostID:    post.ID,
				CreatedAt: post.CreatedAt.Add(time.Duration(r.Intn(72)) * time.Hour),
			}
			if err := db.Create(comment).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
