package domain

// Address is the service address of a linked account.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Account is a provider account linked to the signed-in user.
type Account struct {
	ID      string
	Name    string
	Address Address
}

// Service is a collection service (trash, recycling, yard waste, ...) of an account.
type Service struct {
	ID        string
	AccountID string
	Name      string
	Type      string
}
