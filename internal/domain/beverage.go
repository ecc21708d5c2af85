package domain

import "strings"

var beverageKeywords = []string{
	"COFFEE", "SHAKE", "FRAPPE", "SMOOTHIE", "JUICE", "DRINK", "BEVERAGE", "TEA",
}

// IsBeverageDivision reports whether a division name belongs to the
// beverage side of the menu.
func IsBeverageDivision(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range beverageKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

var dessertKeywords = []string{
	"CAKE", "DESSERT", "BROWNIE", "WAFFLE", "CREPE", "COOKIE", "MUFFIN", "CROISSANT", "DONUT", "PASTR", "SWEET",
}

// IsDessertItem reports whether an item name looks like a dessert, used
// for dessert-beverage bundle detection.
func IsDessertItem(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range dessertKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// IsBeverageItem reports whether an item name looks like a beverage.
func IsBeverageItem(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range []string{"COFFEE", "LATTE", "ESPRESSO", "CAPPUCCINO", "MOCHA", "SHAKE", "FRAPPE", "SMOOTHIE", "JUICE", "TEA", "AMERICANO", "MACCHIATO"} {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
