package models

// Card is a stored card record: the 16-digit number (IIN + customer
// number + Luhn check digit), its PIN and the integer balance.
type Card struct {
	Number  string
	PIN     string
	Balance int64
}
