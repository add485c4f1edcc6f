package models

// Ingredient is a catalog entry. The (name, measurement_unit) pair is
// unique so the same product can still appear with different units.
type Ingredient struct {
	Base
	Name            string `gorm:"size:256;not null;index;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}
