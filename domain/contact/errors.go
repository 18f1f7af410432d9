package contact

const (
	MsgRecorded     = "Thank you for contacting us!"
	MsgSubmitFailed = "An error occurred while submitting your message."
	MsgInvalidBody  = "Invalid request body"
)
