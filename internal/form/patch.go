package form

import "paramanu/internal/domain"

// Patch carries the fields a user changed. Nil fields are left untouched;
// an empty string clears a field.
type Patch struct {
	Name                *string   `json:"name,omitempty"`
	Email               *string   `json:"email,omitempty"`
	Phone               *string   `json:"phone,omitempty"`
	CountryCode         *string   `json:"countryCode,omitempty"`
	WhatsApp            *string   `json:"whatsapp,omitempty"`
	WhatsAppCountryCode *string   `json:"whatsappCountryCode,omitempty"`
	Company             *string   `json:"company,omitempty"`
	College             *string   `json:"college,omitempty"`
	JobTitle            *string   `json:"jobTitle,omitempty"`
	CompanySize         *string   `json:"companySize,omitempty"`
	ServiceInterest     *[]string `json:"serviceInterest,omitempty"`
	PreferredDate       *string   `json:"preferredDate,omitempty"`
	PreferredTime       *string   `json:"preferredTime,omitempty"`
	Timeline            *string   `json:"timeline,omitempty"`
	Message             *string   `json:"message,omitempty"`
	YearOfStudy         *string   `json:"yearOfStudy,omitempty"`
	HeardFrom           *string   `json:"heardFrom,omitempty"`
	Consent             *bool     `json:"consent,omitempty"`
}

// Apply copies the set fields onto inq.
func (p Patch) Apply(inq *domain.Inquiry) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&inq.Name, p.Name)
	set(&inq.Email, p.Email)
	set(&inq.Phone, p.Phone)
	set(&inq.CountryCode, p.CountryCode)
	set(&inq.WhatsApp, p.WhatsApp)
	set(&inq.WhatsAppCountryCode, p.WhatsAppCountryCode)
	set(&inq.Company, p.Company)
	set(&inq.College, p.College)
	set(&inq.JobTitle, p.JobTitle)
	set(&inq.CompanySize, p.CompanySize)
	set(&inq.PreferredDate, p.PreferredDate)
	set(&inq.PreferredTime, p.PreferredTime)
	set(&inq.Timeline, p.Timeline)
	set(&inq.Message, p.Message)
	set(&inq.YearOfStudy, p.YearOfStudy)
	set(&inq.HeardFrom, p.HeardFrom)
	if p.ServiceInterest != nil {
		inq.ServiceInterest = append([]string(nil), (*p.ServiceInterest)...)
	}
	if p.Consent != nil {
		inq.Consent = *p.Consent
	}
}
