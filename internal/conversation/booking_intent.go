package conversation

import "strings"

// bookingPhrases favour recall: a question that merely mentions booking is
// still routed into the booking flow.
var bookingPhrases = []string{
	"book",
	"appointment",
	"schedule",
	"reservation",
	"book a",
	"make a",
	"set up",
	"arrange",
	"when can i",
	"available",
	"booking",
}

// DetectsBookingIntent reports whether message contains any booking phrase,
// ignoring case.
func DetectsBookingIntent(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range bookingPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
