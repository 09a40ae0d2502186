package migration

import (
	"Foodgram-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"subscription", &entities.Subscription{}},
		{"tag", &entities.Tag{}},
		{"ingredient", &entities.Ingredient{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"favorite", &entities.Favorite{}},
		{"shopping cart", &entities.ShoppingCart{}},
	}

	for _, item := range models {
		if err := db.AutoMigrate(item.model); err != nil {
			log.Fatalf("Error migrating %s database: %v", item.name, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
