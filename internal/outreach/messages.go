// Package outreach generates first-contact messages per lead type and can
// optionally deliver them over SMTP.
package outreach

import (
	"strings"

	"roofleads_backend/internal/leads/domain"
)

// Templates are deliberately plain text. Messages are drafts for a human to
// review, never sent blind.
var messageTemplates = map[domain.LeadType]string{
	domain.LeadTypeMiddleman: `Hi {name},

I'm reaching out from Lone Ranger Roofing. We're connecting with {role}s in the {area} area for referral partnerships.

We offer competitive referral fees and prioritize quality work. Would you be open to a quick call?

Best,
Lone Ranger Roofing`,

	domain.LeadTypeStorm: `Hello,

We noticed recent storm activity in your area and wanted to offer our services. Lone Ranger Roofing provides free roof inspections to help assess any potential damage.

If you'd like to schedule a no-obligation inspection, please reply or call.

Stay safe,
Lone Ranger Roofing`,

	domain.LeadTypeHomeowner: `Hello,

Lone Ranger Roofing is offering free roof inspections in your neighborhood. A professional inspection can help identify issues before they become costly repairs.

Would you be interested in scheduling a free assessment?

Best,
Lone Ranger Roofing`,
}

// LeadData carries the interpolation fields for one message.
type LeadData struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
	City *string `json:"city,omitempty"`
	Area *string `json:"area,omitempty"`
}

// Message is one generated outreach draft.
type Message struct {
	Success     bool    `json:"success"`
	LeadType    string  `json:"lead_type"`
	Message     string  `json:"message"`
	ContextUsed *string `json:"context_used,omitempty"`
	Note        string  `json:"note"`
}

// Generate renders the template for a lead type. Unknown types fall back to
// the homeowner template, the least presumptive one.
func Generate(leadType domain.LeadType, data LeadData, context string) Message {
	template, ok := messageTemplates[leadType]
	if !ok {
		template = messageTemplates[domain.LeadTypeHomeowner]
	}

	name := orDefault(data.Name, "there")
	role := orDefault(data.Role, "professional")
	area := orDefault(data.City, orDefault(data.Area, "your"))

	rendered := strings.NewReplacer(
		"{name}", name,
		"{role}", role,
		"{area}", area,
	).Replace(template)

	msg := Message{
		Success:  true,
		LeadType: string(leadType),
		Message:  rendered,
		Note:     "Review and personalize before sending",
	}
	if context != "" {
		msg.ContextUsed = &context
	}
	return msg
}

func orDefault(s *string, fallback string) string {
	if s != nil && strings.TrimSpace(*s) != "" {
		return *s
	}
	return fallback
}
