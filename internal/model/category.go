package model

// Categories is the closed set of product categories. The list is enforced
// twice: here at the service input boundary, and by a CHECK constraint in the
// products table, so an invalid category is rejected regardless of how it
// reaches the store.
var Categories = []string{
	"Beverages", "Biscuits", "Dairy", "Snacks", "Ice Creams",
	"Frozen Foods", "Bakery", "Fruits & Vegetables", "Meat & Seafood",
	"Instant Food", "Cooking Oil", "Spices & Masala", "Rice & Grains",
	"Pulses & Dals", "Sauces & Condiments", "Health Drinks", "Confectionery",
	"Personal Care", "Health & Wellness", "Baby Care", "Cleaning Supplies",
	"Detergents", "Household Items", "Stationery", "Pet Care", "Other",
}

var categorySet = func() map[string]bool {
	set := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		set[c] = true
	}
	return set
}()

// ValidCategory reports whether name belongs to the closed category set.
func ValidCategory(name string) bool { return categorySet[name] }

// PaymentMethods accepted on a sale.
var PaymentMethods = []string{"cash", "card", "upi", "other"}
