package relay

import (
	"fmt"
	"strings"

	"paramanu/internal/domain"
	apperrors "paramanu/pkg/errors"
)

// Payload is the JSON body accepted by the relay. Only Type, Name and Email
// are required; every other field is rendered when present.
type Payload struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	Company     string   `json:"company,omitempty"`
	JobTitle    string   `json:"jobTitle,omitempty"`
	CompanySize string   `json:"companySize,omitempty"`
	Service     string   `json:"service,omitempty"`
	Services    []string `json:"services,omitempty"`
	Date        string   `json:"date,omitempty"`
	Time        string   `json:"time,omitempty"`
	Timeline    string   `json:"timeline,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// PayloadFrom maps an inquiry onto the relay payload. Registration details
// that have no payload field of their own are folded into the message.
func PayloadFrom(inq *domain.Inquiry) Payload {
	p := Payload{
		Type:        string(inq.Kind),
		Name:        inq.Name,
		Email:       inq.Email,
		Phone:       inq.FullPhone(),
		Company:     inq.Organization(),
		JobTitle:    inq.JobTitle,
		CompanySize: inq.CompanySize,
		Date:        inq.PreferredDate,
		Time:        inq.PreferredTime,
		Timeline:    inq.Timeline,
		Message:     inq.Message,
	}
	switch len(inq.ServiceInterest) {
	case 0:
	case 1:
		p.Service = inq.ServiceInterest[0]
	default:
		p.Services = append([]string(nil), inq.ServiceInterest...)
	}

	if inq.Kind == domain.KindProgramRegistration {
		var b strings.Builder
		fmt.Fprintf(&b, "WhatsApp: %s", inq.FullWhatsApp())
		if inq.YearOfStudy != "" {
			fmt.Fprintf(&b, ", Year: %s", inq.YearOfStudy)
		}
		if inq.HeardFrom != "" {
			fmt.Fprintf(&b, ", Heard from: %s", inq.HeardFrom)
		}
		if inq.Message != "" {
			fmt.Fprintf(&b, ". %s", inq.Message)
		}
		p.Message = b.String()
	}
	return p
}

// Validate checks the required fields.
func (p Payload) Validate() error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(p.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperrors.New(apperrors.ErrCodeValidation,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))).WithFields(missing...)
	}
	return nil
}

// TypeLabel returns the display name of the payload type. Unknown values
// are shown as sent.
func (p Payload) TypeLabel() string {
	if k := domain.Kind(p.Type); k.Valid() {
		return k.Label()
	}
	switch p.Type {
	case "schedule":
		return "Schedule Request"
	case "contact":
		return "Contact Form"
	}
	return p.Type
}

// Lines renders one "*Label:* value" line per present field, in a fixed
// order.
func (p Payload) Lines() []string {
	lines := []string{
		line("Type", p.TypeLabel()),
		line("Name", p.Name),
		line("Email", p.Email),
	}
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, line(label, value))
		}
	}

	add("Phone", p.Phone)
	add("Company", p.Company)
	add("Job Title", p.JobTitle)
	add("Company Size", p.CompanySize)
	add("Service", p.Service)
	if len(p.Services) > 0 {
		add("Services", strings.Join(p.Services, ", "))
	}
	switch {
	case p.Date != "" && p.Time != "":
		add("Preferred Date/Time", p.Date+" at "+p.Time)
	default:
		add("Preferred Date/Time", p.Date+p.Time)
	}
	add("Timeline", p.Timeline)
	add("Message", p.Message)
	return lines
}

// Render joins the rendered lines into the message text.
func (p Payload) Render() string {
	return strings.Join(p.Lines(), "\n")
}

func line(label, value string) string {
	return "*" + label + ":* " + value
}
