package validation

type PasswordForm struct {
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

var passwordMessages = map[string]string{
	"password": "Password must be at least 6 characters.",
}

func (f PasswordForm) Validate() FieldErrors {
	fe := check(f, passwordMessages)
	if f.Password != f.ConfirmPassword {
		fe.Add("confirmPassword", "Passwords do not match.")
	}
	return fe
}

type emailForm struct {
	Email string `json:"email" validate:"required,email"`
}

// Email reports whether s is a syntactically valid address.
func Email(s string) bool {
	return check(emailForm{Email: s}, nil).Empty()
}
