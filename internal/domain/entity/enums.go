package entity

// Gender género del cliente.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders lista los valores válidos en el orden en que se ofrecen en los formularios.
var Genders = []Gender{GenderMale, GenderFemale}

// Valid indica si el valor pertenece al enum.
func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// Category categoría de producto.
type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
	CategoryElectronics Category = "electronics"
	CategoryHousehold   Category = "household"
	CategoryFood        Category = "food"
)

// Categories lista los valores válidos.
var Categories = []Category{
	CategoryClothing, CategoryShoes, CategoryAccessories,
	CategoryElectronics, CategoryHousehold, CategoryFood,
}

// Valid indica si el valor pertenece al enum.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
