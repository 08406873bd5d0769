package registry

// InvalidEmailMessage is shown to users who submit a malformed address.
const InvalidEmailMessage = "Bitte geben Sie eine gültige E-Mail-Adresse ein."

// ValidationError carries a user-facing message for input that was rejected
// before any storage access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
