package waitlist

// Client-facing messages. Driver errors stay wrapped inside the AppError and are only logged.
const (
	MessageJoined            = "Successfully joined the waitlist!"
	MessageEmailRequired     = "Email is required"
	MessageInvalidBody       = "Invalid request body"
	MessageEmailTaken        = "Email already registered"
	MessageRegisterFailed    = "Failed to register email"
	MessageCountFailed       = "Failed to get user count"
	MessageRecentFailed      = "Failed to get recent signups"
	MessageUnexpectedFailure = "Internal server error"
)
