package validation

import "lorve_back_end/internal/models"

var addressMessages = map[string]string{
	"fullName":     "Full name is required",
	"addressLine1": "Address is required",
	"city":         "City is required",
	"state":        "State/Province is required",
	"postalCode":   "Postal code is required",
	"country":      "Country is required",
	"phone":        "A valid phone number is required",
}

func Address(a models.Address) FieldErrors {
	return check(a, addressMessages)
}
