package domain

import (
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Collections an inquiry can be stored in.
const (
	CollectionInquiries     = "inquiries"
	CollectionRegistrations = "registrations"
)

// Inquiry represents a lead captured by any of the site's forms
type Inquiry struct {
	ID                  uint       `gorm:"primaryKey" json:"id,omitempty"`
	Kind                Kind       `gorm:"not null;index" json:"kind"`
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"not null;index" json:"email"`
	Phone               string     `json:"phone,omitempty"`
	CountryCode         string     `json:"countryCode,omitempty"`
	WhatsApp            string     `json:"whatsapp,omitempty"`
	WhatsAppCountryCode string     `json:"whatsappCountryCode,omitempty"`
	Company             string     `json:"company,omitempty"`
	College             string     `json:"college,omitempty"`
	JobTitle            string     `json:"jobTitle,omitempty"`
	CompanySize         string     `json:"companySize,omitempty"`
	ServiceInterest     []string   `gorm:"serializer:json" json:"serviceInterest,omitempty"`
	PreferredDate       string     `json:"preferredDate,omitempty"`
	PreferredTime       string     `json:"preferredTime,omitempty"`
	Timeline            string     `json:"timeline,omitempty"`
	Message             string     `gorm:"type:text" json:"message,omitempty"`
	YearOfStudy         string     `json:"yearOfStudy,omitempty"`
	HeardFrom           string     `json:"heardFrom,omitempty"`
	Consent             bool       `json:"consent"`
	Status              string     `gorm:"default:'new'" json:"status,omitempty"` // new, contacted, closed
	CreatedAt           time.Time  `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

// TableName specifies the default table name for Inquiry
func (Inquiry) TableName() string {
	return CollectionInquiries
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	if i.Status == "" {
		i.Status = "new"
	}
	return nil
}

// BeforeUpdate hook
func (i *Inquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	i.UpdatedAt = &now
	return nil
}

// Collection returns the collection this inquiry is persisted into.
func (i *Inquiry) Collection() string {
	if i.Kind == KindProgramRegistration {
		return CollectionRegistrations
	}
	return CollectionInquiries
}

// Organization returns the company, falling back to the college for
// student-facing forms.
func (i *Inquiry) Organization() string {
	if i.Company != "" {
		return i.Company
	}
	return i.College
}

// FullPhone returns the phone prefixed with its country code, when one was
// chosen separately.
func (i *Inquiry) FullPhone() string {
	if i.Phone == "" || i.CountryCode == "" {
		return i.Phone
	}
	return i.CountryCode + " " + i.Phone
}

// FullWhatsApp returns the WhatsApp contact number, defaulting to the phone.
// Its country code falls back to the phone's.
func (i *Inquiry) FullWhatsApp() string {
	if i.WhatsApp == "" {
		return i.FullPhone()
	}
	code := i.WhatsAppCountryCode
	if code == "" {
		code = i.CountryCode
	}
	if code == "" {
		return i.WhatsApp
	}
	return code + " " + i.WhatsApp
}

// Normalize trims every text field and lowercases the email.
func (i *Inquiry) Normalize() {
	for _, p := range []*string{
		&i.Name, &i.Phone, &i.CountryCode, &i.WhatsApp, &i.WhatsAppCountryCode,
		&i.Company, &i.College, &i.JobTitle, &i.CompanySize, &i.PreferredDate,
		&i.PreferredTime, &i.Timeline, &i.Message, &i.YearOfStudy, &i.HeardFrom,
	} {
		*p = strings.TrimSpace(*p)
	}
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	if i.Kind == KindProgramRegistration {
		i.Phone = Digits(i.Phone)
		i.WhatsApp = Digits(i.WhatsApp)
	}

	var services []string
	for _, s := range i.ServiceInterest {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(services, s) {
			services = append(services, s)
		}
	}
	i.ServiceInterest = services
}

// Reset clears every field but the kind.
func (i *Inquiry) Reset() {
	*i = Inquiry{Kind: i.Kind}
}

// Clone returns a deep copy of the inquiry.
func (i Inquiry) Clone() Inquiry {
	if i.ServiceInterest != nil {
		i.ServiceInterest = append([]string(nil), i.ServiceInterest...)
	}
	if i.UpdatedAt != nil {
		t := *i.UpdatedAt
		i.UpdatedAt = &t
	}
	return i
}
