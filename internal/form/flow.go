package form

import (
	"paramanu/internal/domain"
)

// Step names.
const (
	StepContactInfo       = "contact-info"
	StepServiceAndTime    = "service-and-time"
	StepMessageAndSummary = "message-and-summary"
	StepRegistration      = "registration"
	StepSubmitted         = "submitted"
)

// Step is one page of a form. Gate lists the fields that must be non-empty
// before the user may move past it.
type Step struct {
	Name string
	Gate []domain.Field
}

var scheduleFlow = []Step{
	{Name: StepContactInfo, Gate: []domain.Field{domain.FieldName, domain.FieldEmail, domain.FieldCompany}},
	{Name: StepServiceAndTime, Gate: []domain.Field{domain.FieldServiceInterest, domain.FieldPreferredDate, domain.FieldPreferredTime}},
	{Name: StepMessageAndSummary},
}

// FlowFor returns the steps of the form that produces the given kind.
func FlowFor(k domain.Kind) []Step {
	switch {
	case k.IsSchedule():
		return scheduleFlow
	case k == domain.KindProgramRegistration:
		return []Step{{Name: StepRegistration}}
	case k == domain.KindGeneralContact, k == domain.KindCapabilitiesDeckRequest:
		return []Step{{Name: StepContactInfo}}
	}
	return nil
}

// Confirmation is the message shown once a submission was accepted.
func Confirmation(k domain.Kind) string {
	switch k {
	case domain.KindScheduleAssessment:
		return "Assessment scheduled! We'll contact you within 24 hours."
	case domain.KindScheduleConsultation:
		return "Consultation booked! Check your email for confirmation."
	case domain.KindCapabilitiesDeckRequest:
		return "Capabilities deck sent to your email!"
	case domain.KindProgramRegistration:
		return "Registration successful! You'll receive a WhatsApp message on your number shortly from our team."
	}
	return "Message sent successfully! We'll get back to you soon."
}
