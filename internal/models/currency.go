package models

type Currency struct {
	Code string `gorm:"primaryKey;size:3"`
	Name string `gorm:"size:50;not null"`
}

// DefaultCurrencies is the catalogue seeded by the migrate command.
var DefaultCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar"},
	{Code: "EUR", Name: "Euro"},
	{Code: "GBP", Name: "British Pound"},
	{Code: "ZAR", Name: "South African Rand"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "CHF", Name: "Swiss Franc"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "CAD", Name: "Canadian Dollar"},
}
