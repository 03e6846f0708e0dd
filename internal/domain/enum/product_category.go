package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProductCategory is the menu section a product is sold under
type ProductCategory string

const (
	ProductCategoryDrink    ProductCategory = "drink"
	ProductCategoryCocktail ProductCategory = "cocktail"
	ProductCategoryBeer     ProductCategory = "beer"
	ProductCategoryFood     ProductCategory = "food"
	ProductCategoryDessert  ProductCategory = "dessert"
	ProductCategorySnack    ProductCategory = "snack"
)

// ProductCategories lists every category in menu order
var ProductCategories = []ProductCategory{
	ProductCategoryDrink,
	ProductCategoryCocktail,
	ProductCategoryBeer,
	ProductCategoryFood,
	ProductCategoryDessert,
	ProductCategorySnack,
}

func (c ProductCategory) String() string {
	return string(c)
}

func (c ProductCategory) IsValid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c ProductCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *ProductCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = ProductCategory(str)
	return nil
}

func (c ProductCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *ProductCategory) Scan(value interface{}) error {
	if value == nil {
		*c = ProductCategoryDrink
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = ProductCategory(v)
	case []byte:
		*c = ProductCategory(string(v))
	}
	return nil
}
