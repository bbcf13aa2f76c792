package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	apperrors "paramanu/pkg/errors"
)

// Field names an Inquiry attribute, using its wire name.
type Field string

const (
	FieldKind            Field = "kind"
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldCountryCode     Field = "countryCode"
	FieldWhatsApp        Field = "whatsapp"
	FieldWhatsAppCountry Field = "whatsappCountryCode"
	FieldCompany         Field = "company"
	FieldCollege         Field = "college"
	FieldJobTitle        Field = "jobTitle"
	FieldCompanySize     Field = "companySize"
	FieldServiceInterest Field = "serviceInterest"
	FieldPreferredDate   Field = "preferredDate"
	FieldPreferredTime   Field = "preferredTime"
	FieldTimeline        Field = "timeline"
	FieldMessage         Field = "message"
	FieldYearOfStudy     Field = "yearOfStudy"
	FieldHeardFrom       Field = "heardFrom"
	FieldConsent         Field = "consent"
)

const (
	PhoneDigits      = 10
	maxNameLength    = 100
	maxMessageLength = 5000
	dateLayout       = "2006-01-02"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// Rule is the per-kind validation variant.
type Rule struct {
	Required []Field
	// PhoneDigits, when set, requires the phone to have exactly this many
	// digits once non-digits are stripped.
	PhoneDigits int
	Consent     bool
}

var rules = map[Kind]Rule{
	KindGeneralContact: {
		Required: []Field{FieldName, FieldEmail, FieldCompany, FieldMessage},
	},
	KindScheduleAssessment: {
		Required: []Field{FieldName, FieldEmail, FieldCompany, FieldServiceInterest, FieldPreferredDate, FieldPreferredTime},
	},
	KindScheduleConsultation: {
		Required: []Field{FieldName, FieldEmail, FieldCompany, FieldServiceInterest, FieldPreferredDate, FieldPreferredTime},
	},
	KindCapabilitiesDeckRequest: {
		Required: []Field{FieldName, FieldEmail, FieldCompany},
	},
	KindProgramRegistration: {
		Required:    []Field{FieldName, FieldEmail, FieldCountryCode, FieldCollege, FieldYearOfStudy},
		PhoneDigits: PhoneDigits,
		Consent:     true,
	},
}

// RuleFor returns the validation rule of a kind.
func RuleFor(k Kind) (Rule, bool) {
	r, ok := rules[k]
	return r, ok
}

// RequiredFields lists every field a kind needs before it can be submitted,
// including the phone and consent checks.
func RequiredFields(k Kind) []Field {
	r, _ := RuleFor(k)
	fields := slices.Clone(r.Required)
	if r.PhoneDigits > 0 {
		fields = append(fields, FieldPhone)
	}
	if r.Consent {
		fields = append(fields, FieldConsent)
	}
	return fields
}

// Has reports whether a field carries a value.
func (i *Inquiry) Has(f Field) bool {
	switch f {
	case FieldKind:
		return i.Kind != ""
	case FieldServiceInterest:
		return len(i.ServiceInterest) > 0
	case FieldConsent:
		return i.Consent
	}
	v, ok := i.text(f)
	return ok && strings.TrimSpace(v) != ""
}

func (i *Inquiry) text(f Field) (string, bool) {
	switch f {
	case FieldName:
		return i.Name, true
	case FieldEmail:
		return i.Email, true
	case FieldPhone:
		return i.Phone, true
	case FieldCountryCode:
		return i.CountryCode, true
	case FieldWhatsApp:
		return i.WhatsApp, true
	case FieldWhatsAppCountry:
		return i.WhatsAppCountryCode, true
	case FieldCompany:
		return i.Company, true
	case FieldCollege:
		return i.College, true
	case FieldJobTitle:
		return i.JobTitle, true
	case FieldCompanySize:
		return i.CompanySize, true
	case FieldPreferredDate:
		return i.PreferredDate, true
	case FieldPreferredTime:
		return i.PreferredTime, true
	case FieldTimeline:
		return i.Timeline, true
	case FieldMessage:
		return i.Message, true
	case FieldYearOfStudy:
		return i.YearOfStudy, true
	case FieldHeardFrom:
		return i.HeardFrom, true
	}
	return "", false
}

// Missing returns the fields from the list that carry no value.
func Missing(inq *Inquiry, fields []Field) []Field {
	var missing []Field
	for _, f := range fields {
		if !inq.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Digits strips every non-digit character.
func Digits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// ValidEmail reports whether s matches the basic email pattern.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// Validate checks an inquiry against the rule of its kind. It returns nil or
// an *errors.AppError whose code is VALIDATION_ERROR, INVALID_PHONE or
// CONSENT_REQUIRED and whose Fields name the offending attributes.
func Validate(inq *Inquiry) error {
	rule, ok := RuleFor(inq.Kind)
	if !ok {
		return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("unknown inquiry kind %q", inq.Kind), FieldKind)
	}

	if missing := Missing(inq, rule.Required); len(missing) > 0 {
		return fieldError(apperrors.ErrCodeValidation, "required fields are missing", missing...)
	}

	if rule.Consent && !inq.Consent {
		return fieldError(apperrors.ErrCodeConsentRequired, "please agree to be contacted", FieldConsent)
	}

	if rule.PhoneDigits > 0 {
		if len(Digits(inq.Phone)) != rule.PhoneDigits {
			return fieldError(apperrors.ErrCodeInvalidPhone, fmt.Sprintf("phone must be %d digits", rule.PhoneDigits), FieldPhone)
		}
		if inq.WhatsApp != "" && len(Digits(inq.WhatsApp)) != rule.PhoneDigits {
			return fieldError(apperrors.ErrCodeInvalidPhone, fmt.Sprintf("WhatsApp number must be %d digits", rule.PhoneDigits), FieldWhatsApp)
		}
	}

	return validateFormats(inq)
}

// singleLineFields may not contain control characters; their values end up
// in mail headers and one-line notification entries.
var singleLineFields = []Field{
	FieldName, FieldEmail, FieldPhone, FieldCountryCode, FieldWhatsApp,
	FieldWhatsAppCountry, FieldCompany, FieldCollege, FieldJobTitle,
	FieldCompanySize, FieldPreferredDate, FieldPreferredTime, FieldTimeline,
	FieldYearOfStudy, FieldHeardFrom,
}

func validateFormats(inq *Inquiry) error {
	for _, f := range singleLineFields {
		if v, _ := inq.text(f); strings.ContainsFunc(v, unicode.IsControl) {
			return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("%s must be a single line of text", f), f)
		}
	}
	for _, s := range inq.ServiceInterest {
		if strings.ContainsFunc(s, unicode.IsControl) {
			return fieldError(apperrors.ErrCodeValidation, "services must be single lines of text", FieldServiceInterest)
		}
	}
	if !ValidEmail(inq.Email) {
		return fieldError(apperrors.ErrCodeValidation, "invalid email address", FieldEmail)
	}
	if len(inq.Name) > maxNameLength {
		return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("name must not exceed %d characters", maxNameLength), FieldName)
	}
	if len(inq.Message) > maxMessageLength {
		return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("message must not exceed %d characters", maxMessageLength), FieldMessage)
	}
	if inq.PreferredDate != "" {
		if _, err := time.Parse(dateLayout, inq.PreferredDate); err != nil {
			return fieldError(apperrors.ErrCodeValidation, "preferred date must be YYYY-MM-DD", FieldPreferredDate)
		}
	}
	for _, s := range inq.ServiceInterest {
		if !slices.Contains(Services, s) {
			return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("unknown service %q", s), FieldServiceInterest)
		}
	}

	catalogs := []struct {
		field   Field
		value   string
		options []string
	}{
		{FieldPreferredTime, inq.PreferredTime, TimeSlots},
		{FieldTimeline, inq.Timeline, Timelines},
		{FieldCompanySize, inq.CompanySize, CompanySizes},
		{FieldCountryCode, inq.CountryCode, CountryCodes},
		{FieldWhatsAppCountry, inq.WhatsAppCountryCode, CountryCodes},
		{FieldYearOfStudy, inq.YearOfStudy, YearsOfStudy},
		{FieldHeardFrom, inq.HeardFrom, HeardFrom},
	}
	for _, c := range catalogs {
		if c.value != "" && !slices.Contains(c.options, c.value) {
			return fieldError(apperrors.ErrCodeValidation, fmt.Sprintf("invalid %s %q", c.field, c.value), c.field)
		}
	}
	return nil
}

func fieldError(code apperrors.ErrorCode, message string, fields ...Field) error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return apperrors.New(code, message).WithFields(names...)
}
