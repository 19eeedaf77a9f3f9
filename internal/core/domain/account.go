package domain

// Registration is the input to creating a backend account.
type Registration struct {
	Name     string `validate:"required,notblank,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// Login is the input to exchanging an email and password for a token.
type Login struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}
