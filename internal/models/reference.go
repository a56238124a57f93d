package models

// Category and Condition are small static reference collections. They use
// plain string IDs ("1", "2", ...) because external consumers send them as
// form values.

type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

type Condition struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// DefaultCategories and DefaultConditions seed new deployments.
var DefaultCategories = []string{
	"Electronics", "Books", "Furniture", "Tools",
	"Vehicles", "Toys", "Clothing", "Home & Garden",
}

var DefaultConditions = []string{"New", "Like New", "Good", "Fair", "Poor"}
