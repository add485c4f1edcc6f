package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IvanKorch1289/foodgram/config"
	"github.com/IvanKorch1289/foodgram/internal/database"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

// Seeds the ingredient and tag catalogs from CSV files. Rows that
// already exist are skipped, so the command is safe to re-run.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "CSV with name,measurement_unit rows")
	tagsPath := flag.String("tags", "", "Optional CSV with name,slug rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	n, err := seedIngredients(db, *ingredientsPath)
	if err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	log.Printf("Seeded %d ingredients", n)

	if *tagsPath != "" {
		n, err := seedTags(db, *tagsPath)
		if err != nil {
			log.Fatalf("Failed to seed tags: %v", err)
		}
		log.Printf("Seeded %d tags", n)
	}
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return count, fmt.Errorf("row %d: expected name,measurement_unit", i+1)
		}
		ingredient := models.Ingredient{Name: row[0], MeasurementUnit: row[1]}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredient)
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return count, res.Error
		}
		if res.RowsAffected > 0 {
			count++
		}
	}
	return count, nil
}

func seedTags(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return count, fmt.Errorf("row %d: expected name,slug", i+1)
		}
		tag := models.Tag{Name: row[0], Slug: row[1]}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return count, res.Error
		}
		if res.RowsAffected > 0 {
			count++
		}
	}
	return count, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
