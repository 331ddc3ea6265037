package contact

// Submission carries the raw contact form fields as received from the
// client. Field declaration order is the validation-reporting order: when
// several fields are invalid at once, the first declared one wins.
type Submission struct {
	Name              string `json:"name" validate:"required,min=2,max=50,alpha_space"`
	Email             string `json:"email" validate:"required,email,max=254"`
	Message           string `json:"message" validate:"required,min=10,max=1000"`
	InstagramUsername string `json:"instagramUsername" validate:"required,max=30,ig_handle"`
	MonthlyRevenue    string `json:"monthlyRevenue" validate:"required,oneof=under-5k 5k-15k 15k-30k 30k-50k 50k-plus"`
	CurrentSetters    string `json:"currentSetters" validate:"required,oneof=0 1 2-3 4-plus freelancers"`
	BiggestChallenge  string `json:"biggestChallenge" validate:"required,oneof=inconsistent-leads low-dm-response unreliable-setters too-much-time-on-dms cant-scale-capacity other"`
	Timeline          string `json:"timeline" validate:"required,oneof=immediately within-month 2-3-months just-exploring"`
	CompanyName       string `json:"companyName,omitempty" validate:"omitempty,max=100"`
	PhoneNumber       string `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
}

// WaitlistSubmission is the narrower sibling schema used by the waitlist
// form.
type WaitlistSubmission struct {
	Name              string `json:"name" validate:"required,max=50"`
	Email             string `json:"email" validate:"required,email,max=254"`
	InstagramUsername string `json:"instagramUsername" validate:"required,max=30,ig_handle"`
}

// Metadata carries request context forwarded alongside a submission. Both
// fields are best-effort and omitted when unknown.
type Metadata struct {
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

const (
	TypeContact  = "contact_form_submission"
	TypeWaitlist = "waitlist_submission"

	// Source identifies this service in webhook payloads.
	Source = "landing-page"
)

// WebhookPayload is the JSON document POSTed to the configured webhook.
// It is built once per accepted request and never mutated afterwards.
type WebhookPayload struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type contactData struct {
	Submission
	Timestamp string   `json:"timestamp"`
	Source    string   `json:"source"`
	Metadata  Metadata `json:"metadata"`
}

type waitlistData struct {
	WaitlistSubmission
	Timestamp string   `json:"timestamp"`
	Source    string   `json:"source"`
	Metadata  Metadata `json:"metadata"`
}

// NewContactPayload wraps a normalized contact submission for dispatch.
func NewContactPayload(s Submission, timestamp string, meta Metadata) WebhookPayload {
	return WebhookPayload{
		Type: TypeContact,
		Data: contactData{
			Submission: s,
			Timestamp:  timestamp,
			Source:     Source,
			Metadata:   meta,
		},
	}
}

// NewWaitlistPayload wraps a normalized waitlist submission for dispatch.
func NewWaitlistPayload(s WaitlistSubmission, timestamp string, meta Metadata) WebhookPayload {
	return WebhookPayload{
		Type: TypeWaitlist,
		Data: waitlistData{
			WaitlistSubmission: s,
			Timestamp:          timestamp,
			Source:             Source,
			Metadata:           meta,
		},
	}
}
