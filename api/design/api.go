package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("paramanu", func() {
	Title("Paramanu Intake API")
	Description("Lead intake for the Paramanu Consulting site: multi-step inquiry forms, the program popup and the WhatsApp notification relay")
	Version("1.0.0")
	Server("intake", func() {
		Services("health", "intake", "forms", "popup")
		Host("localhost", func() {
			URI("http://localhost:8000")
		})
	})
	Server("relay", func() {
		Services("relay")
		Host("localhost", func() {
			URI("http://localhost:8001")
		})
	})
})

// Common error types
var ErrorBody = Type("ErrorBody", func() {
	Description("Error response shared by every service")
	Attribute("name", String, "Error class", func() {
		Enum("bad_request", "unauthorized", "not_found", "conflict", "internal")
	})
	Attribute("id", String, "Unique error ID")
	Attribute("code", String, "Application error code", func() {
		Example("STEP_INCOMPLETE")
	})
	Attribute("message", String, "Error message", func() {
		Example("Please fill in: name, email")
	})
	Attribute("fields", ArrayOf(String), "Fields that block the current step")
	Required("name", "message")
})

var InquiryKind = Type("InquiryKind", String, func() {
	Enum("general-contact", "schedule-assessment", "schedule-consultation", "capabilities-deck-request", "program-registration")
})

// Health check
var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/health")
			Response(StatusOK)
			Response(StatusServiceUnavailable)
		})
	})
})

var HealthResult = ResultType("HealthResult", func() {
	Attribute("status", String, "Service status", func() {
		Enum("healthy", "degraded")
	})
	Attribute("service", String, "Service name", func() {
		Example("Paramanu Intake API")
	})
	Attribute("database", String, "Database reachability", func() {
		Enum("ok", "unreachable")
	})
	Required("status", "service")
})

var InquiryFields = Type("InquiryFields", func() {
	Attribute("name", String)
	Attribute("email", String, func() { Format(FormatEmail) })
	Attribute("phone", String, "Local phone number, digits only")
	Attribute("countryCode", String, func() { Example("+91") })
	Attribute("whatsapp", String)
	Attribute("whatsappCountryCode", String, "Country code of the WhatsApp number, defaults to countryCode", func() { Example("+1") })
	Attribute("company", String)
	Attribute("college", String)
	Attribute("jobTitle", String)
	Attribute("companySize", String)
	Attribute("serviceInterest", ArrayOf(String))
	Attribute("preferredDate", String)
	Attribute("preferredTime", String)
	Attribute("timeline", String)
	Attribute("message", String)
	Attribute("yearOfStudy", String)
	Attribute("heardFrom", String)
	Attribute("consent", Boolean)
})

var SubmitResult = ResultType("SubmitResult", func() {
	Attribute("id", UInt, "Stored inquiry ID")
	Attribute("kind", InquiryKind)
	Attribute("message", String, "Confirmation shown to the visitor")
	Required("id", "kind", "message")
})

// One-shot submissions
var _ = Service("intake", func() {
	Description("Validate, store and announce a complete inquiry in one call")
	Error("bad_request", ErrorBody)
	Error("internal", ErrorBody)

	Method("submit", func() {
		Payload(func() {
			Extend(InquiryFields)
			Attribute("kind", InquiryKind)
			Required("kind")
		})
		Result(SubmitResult)
		HTTP(func() {
			POST("/api/v1/inquiries")
			Response(StatusCreated)
			Response("bad_request", StatusBadRequest)
			Response("internal", StatusInternalServerError)
		})
	})
})

var FormResult = ResultType("FormResult", func() {
	Attribute("id", String, "Form session ID")
	Attribute("kind", InquiryKind)
	Attribute("step", String, "Current step name", func() {
		Enum("contact-info", "service-and-time", "message-and-summary", "registration", "submitted")
	})
	Attribute("stepNumber", Int)
	Attribute("totalSteps", Int)
	Attribute("canAdvance", Boolean)
	Attribute("missing", ArrayOf(String), "Fields blocking the current step")
	Attribute("required", ArrayOf(String), "Fields the kind needs before it can be submitted")
	Attribute("submitting", Boolean)
	Attribute("inquiry", InquiryFields)
	Attribute("confirmation", String)
	Required("id", "kind", "step", "stepNumber", "totalSteps", "required")
})

var FormID = func() {
	Attribute("id", String, "Form session ID")
	Required("id")
}

// Multi-step forms
var _ = Service("forms", func() {
	Description("Server-held multi-step form sessions")
	Error("bad_request", ErrorBody)
	Error("not_found", ErrorBody)
	Error("conflict", ErrorBody)
	Error("internal", ErrorBody)
	HTTP(func() {
		Path("/api/v1/forms")
		Response("bad_request", StatusBadRequest)
		Response("not_found", StatusNotFound)
		Response("conflict", StatusConflict)
		Response("internal", StatusInternalServerError)
	})

	Method("create", func() {
		Payload(func() {
			Attribute("kind", InquiryKind)
			Required("kind")
		})
		Result(FormResult)
		HTTP(func() {
			POST("")
			Response(StatusCreated)
		})
	})

	Method("show", func() {
		Payload(FormID)
		Result(FormResult)
		HTTP(func() { GET("/{id}") })
	})

	Method("update", func() {
		Payload(func() {
			Extend(InquiryFields)
			Attribute("id", String)
			Required("id")
		})
		Result(FormResult)
		HTTP(func() { PATCH("/{id}") })
	})

	Method("close", func() {
		Description("Drop the form session")
		Payload(FormID)
		HTTP(func() {
			DELETE("/{id}")
			Response(StatusNoContent)
		})
	})

	Method("next", func() {
		Payload(FormID)
		Result(FormResult)
		HTTP(func() { POST("/{id}/next") })
	})

	Method("back", func() {
		Payload(FormID)
		Result(FormResult)
		HTTP(func() { POST("/{id}/back") })
	})

	Method("submit", func() {
		Payload(FormID)
		Result(func() {
			Attribute("result", SubmitResult)
			Attribute("form", FormResult)
			Required("result")
		})
		HTTP(func() { POST("/{id}/submit") })
	})

	Method("dismiss", func() {
		Payload(FormID)
		Result(FormResult)
		HTTP(func() { POST("/{id}/dismiss") })
	})
})

var PopupDecision = ResultType("PopupDecision", func() {
	Attribute("show", Boolean, "Whether the popup should open")
	Attribute("delayMillis", Int64, "Delay before opening")
	Attribute("target", String, "Registration page", func() {
		Example("/python-full-stack")
	})
	Required("show")
})

// Program registration popup
var _ = Service("popup", func() {
	Description("Once-per-session promotion of the program registration form")
	HTTP(func() {
		Path("/api/v1/popups/program")
		Cookie("paramanu_sid")
	})

	Method("show", func() {
		Result(PopupDecision)
		HTTP(func() { GET("") })
	})

	Method("dismiss", func() {
		Result(PopupDecision)
		HTTP(func() { POST("/dismiss") })
	})
})

var RelayPayload = Type("RelayPayload", func() {
	Attribute("type", String, "Inquiry kind or legacy type", func() {
		Example("contact")
	})
	Attribute("name", String)
	Attribute("email", String)
	Attribute("phone", String)
	Attribute("company", String)
	Attribute("jobTitle", String)
	Attribute("companySize", String)
	Attribute("service", String)
	Attribute("services", ArrayOf(String))
	Attribute("date", String)
	Attribute("time", String)
	Attribute("timeline", String)
	Attribute("message", String)
})

var RelayResult = ResultType("RelayResult", func() {
	Attribute("success", Boolean)
	Attribute("message", String)
	Attribute("error", String)
	Required("success")
})

// WhatsApp notification relay
var _ = Service("relay", func() {
	Description("Formats an inquiry and forwards it to the CallMeBot WhatsApp API")
	Security(JWTAuth)

	Method("send", func() {
		Payload(func() {
			Token("token", String)
			Extend(RelayPayload)
		})
		Result(RelayResult)
		Error("unauthorized", RelayResult)
		Error("failed", RelayResult)
		HTTP(func() {
			POST("/send-whatsapp")
			Header("token:Authorization")
			Response(StatusOK)
			Response("unauthorized", StatusUnauthorized)
			Response("failed", StatusInternalServerError)
		})
	})
})

var JWTAuth = JWTSecurity("jwt", func() {
	Description("Short-lived HS256 token signed with RELAY_SHARED_SECRET")
})
