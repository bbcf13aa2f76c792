package domain

import "slices"

// Kind tags which form produced an inquiry. It selects the validation rules,
// the form flow and the storage collection.
type Kind string

const (
	KindGeneralContact          Kind = "general-contact"
	KindScheduleAssessment      Kind = "schedule-assessment"
	KindScheduleConsultation    Kind = "schedule-consultation"
	KindCapabilitiesDeckRequest Kind = "capabilities-deck-request"
	KindProgramRegistration     Kind = "program-registration"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	KindGeneralContact,
	KindScheduleAssessment,
	KindScheduleConsultation,
	KindCapabilitiesDeckRequest,
	KindProgramRegistration,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Label is the human-readable name used in notifications.
func (k Kind) Label() string {
	switch k {
	case KindGeneralContact:
		return "Contact Form"
	case KindScheduleAssessment:
		return "Schedule Assessment"
	case KindScheduleConsultation:
		return "Schedule Consultation"
	case KindCapabilitiesDeckRequest:
		return "Capabilities Deck Request"
	case KindProgramRegistration:
		return "Python Full Stack Program Registration"
	}
	return string(k)
}

// IsSchedule reports whether k is one of the scheduling kinds.
func (k Kind) IsSchedule() bool {
	return k == KindScheduleAssessment || k == KindScheduleConsultation
}

// Fixed option lists offered by the forms.
var (
	Services = []string{
		"Oracle Managed Services",
		"DevOps Services",
		"SRE Services",
		"Automation & AI-Enabled Services",
		"Production Support",
		"SAP Services",
		"Website Development",
		"HR Services",
		"Business Consulting",
		"DevOps & SRE",
		"Cloud Migration",
		"IT Staffing",
		"Other",
	}

	TimeSlots = []string{
		"9:00 AM EST",
		"10:00 AM EST",
		"11:00 AM EST",
		"1:00 PM EST",
		"2:00 PM EST",
		"3:00 PM EST",
		"4:00 PM EST",
	}

	Timelines = []string{
		"Immediately",
		"Within 1 month",
		"1-3 months",
		"3-6 months",
		"Just exploring",
	}

	CompanySizes = []string{
		"1-50 employees",
		"51-200 employees",
		"201-1000 employees",
		"1001-5000 employees",
		"5000+ employees",
	}

	CountryCodes = []string{"+91", "+1", "+44", "+971", "+65", "+61", "+49"}

	YearsOfStudy = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Graduated"}

	HeardFrom = []string{"Instagram", "LinkedIn", "Friend", "College", "Other"}
)
