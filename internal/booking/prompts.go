package booking

import "fmt"

const (
	// DateLayout is the accepted answer format for the date question.
	DateLayout = "2006-01-02"
	// confirmationLayout renders dates like "Friday, January 02, 2030".
	confirmationLayout = "Monday, January 02, 2006"
)

const (
	PromptName        = "I'd be happy to help you book an appointment! Could you please tell me your name?"
	PromptDescription = "Great! Please describe the tattoo you're interested in getting:"
	PromptDate        = "That sounds fantastic! When would you like to book your appointment? (Please use YYYY-MM-DD format)"
	PromptInvalidDate = "I need a valid date in YYYY-MM-DD format (for example, 2025-05-15). When would you like to come in?"
	PromptPastDate    = "That date is in the past. Please choose a future date (YYYY-MM-DD format)."
	PromptSaveFailed  = "I'm sorry, there was an error booking your appointment. Please try again or contact the studio directly."
)

func promptCity(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! Which city are you located in?", name)
}

func promptConfirmed(formattedDate string) string {
	return fmt.Sprintf("Perfect! Your appointment has been confirmed for %s. We're looking forward to seeing you! Is there anything else you'd like to know about preparing for your tattoo?", formattedDate)
}
