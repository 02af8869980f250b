package models

type Address struct {
	FullName     string `json:"fullName" form:"fullName" validate:"min=3"`
	AddressLine1 string `json:"addressLine1" form:"addressLine1" validate:"min=5"`
	AddressLine2 string `json:"addressLine2,omitempty" form:"addressLine2"`
	City         string `json:"city" form:"city" validate:"min=2"`
	State        string `json:"state" form:"state" validate:"min=2"`
	PostalCode   string `json:"postalCode" form:"postalCode" validate:"min=4"`
	Country      string `json:"country" form:"country" validate:"min=2"`
	Phone        string `json:"phone" form:"phone" validate:"min=10"`
}
