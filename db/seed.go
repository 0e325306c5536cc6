package db

import (
	"errors"
	"log"

	"catalogadmin/models"

	"gorm.io/gorm"
)

// defaultCategories is the fixed reference list seeded on first startup.
var defaultCategories = []string{
	"Electronics", "Books", "Clothing", "Furniture", "Toys", "Groceries",
	"Health & Beauty", "Sports & Outdoors", "Automotive", "Jewelry", "Music",
	"Office Supplies", "Pet Supplies", "Home Decor", "Garden",
	"Baby Products", "Footwear", "Kitchenware", "Art & Craft", "Software",
}

// SeedCategories inserts the predefined categories, skipping names that
// already exist so repeated startups leave the table unchanged.
func SeedCategories(database *gorm.DB) error {
	for _, name := range defaultCategories {
		var existing models.Category
		err := database.Where("name = ?", name).First(&existing).Error
		if err == nil {
			log.Println("SeedCategories:", name, "category already exists.")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := database.Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
