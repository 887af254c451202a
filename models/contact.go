package models

// Contact subjects offered by the contact form
const (
	SubjectGeneral  = "General Enquiry"
	SubjectFeedback = "Feedback"
	SubjectOther    = "Other"
)

// ContactRequest is a contact form submission
type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" form:"subject" validate:"omitempty,oneof='General Enquiry' Feedback Other"`
	Mobile  string `json:"mobile,omitempty" form:"mobile" validate:"max=32"`
	Message string `json:"message,omitempty" form:"message" validate:"max=5000"`
}

// ContactReason pairs a subject with the message suggested for it
type ContactReason struct {
	Subject    string `json:"subject"`
	Suggestion string `json:"suggestion"`
}

// ContactReasons lists the form subjects in display order
var ContactReasons = []ContactReason{
	{Subject: SubjectGeneral, Suggestion: "I'd love to learn more about your sessions and offerings."},
	{Subject: SubjectFeedback, Suggestion: "I recently attended a session and would love to share my thoughts."},
	{Subject: SubjectOther, Suggestion: "I have a unique question or something else to share."},
}

// SuggestionFor returns the suggested message for subject, or "" if unknown
func SuggestionFor(subject string) string {
	for _, r := range ContactReasons {
		if r.Subject == subject {
			return r.Suggestion
		}
	}
	return ""
}
