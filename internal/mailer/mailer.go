package mailer

// Mailer sends account lifecycle mail. Implementations must be safe for
// concurrent use by request handlers.
type Mailer interface {
	SendVerificationEmail(toEmail, toName, code string) error
	SendPasswordResetEmail(toEmail, toName, code string) error
}
