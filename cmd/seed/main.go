package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// Imports ingredients from a CSV file with "name,measurement_unit" rows.
//
//	go run ./cmd/seed -file data/ingredients.csv
func main() {
	filePath := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *filePath, err)
	}
	defer file.Close()

	var ingredients []*entities.Ingredient
	reader := csv.NewReader(file)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to read csv: %v", err)
		}
		if len(record) < 2 || record[0] == "" {
			continue
		}
		ingredients = append(ingredients, &entities.Ingredient{
			ID:              uuid.New(),
			Name:            record[0],
			MeasurementUnit: record[1],
		})
	}

	if len(ingredients) == 0 {
		log.Println("nothing to import")
		return
	}

	repository := ingredient.NewIngredientRepository(db)
	if err := repository.BulkCreateIngredients(context.Background(), ingredients); err != nil {
		log.Fatalf("failed to import ingredients: %v", err)
	}

	log.Printf("imported %d ingredients", len(ingredients))
}
