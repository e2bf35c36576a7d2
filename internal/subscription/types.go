package subscription

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DateFormat is the wire format for birth dates.
const DateFormat = "2006-01-02"

// JobEmail is the logical job name carried by confirmation email jobs.
const JobEmail = "email"

type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
	GenderNone   Gender = 3
)

// Subscription is a live newsletter subscription. Records are immutable
// after creation; (Email, NewsletterCampaign) is unique across live rows.
type Subscription struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName,omitempty"`
	Gender             Gender    `json:"gender,omitempty"`
	Birth              time.Time `json:"birth"`
	Consent            bool      `json:"consent"`
	NewsletterCampaign int64     `json:"newsletterCampaign"`
}

// CreateReq is the create payload; validation happens at the HTTP boundary
// via binding tags, before anything reaches the gateway.
type CreateReq struct {
	Email              string  `json:"email" binding:"required,email"`
	FirstName          string  `json:"firstName"`
	Gender             *Gender `json:"gender" binding:"omitempty,oneof=1 2 3"`
	Birth              string  `json:"birth" binding:"required,datetime=2006-01-02"`
	Consent            *bool   `json:"consent" binding:"required"`
	NewsletterCampaign int64   `json:"newsletterCampaign" binding:"required"`
}

// Subscription converts a bound request into a domain record.
func (r CreateReq) Subscription() Subscription {
	birth, _ := time.Parse(DateFormat, r.Birth)
	s := Subscription{
		Email:              r.Email,
		FirstName:          r.FirstName,
		Birth:              birth,
		NewsletterCampaign: r.NewsletterCampaign,
	}
	if r.Gender != nil {
		s.Gender = *r.Gender
	}
	if r.Consent != nil {
		s.Consent = *r.Consent
	}
	return s
}

// Filter narrows list reads. Zero values mean "unfiltered"; Skip and Take
// apply only when both are set, matching the read contract.
type Filter struct {
	Gender             Gender
	Birth              time.Time
	NewsletterCampaign int64
	Skip               int
	Take               int
}

func (f Filter) Paginated() bool { return f.Skip > 0 && f.Take > 0 }

// FilterFromQuery parses list-read query parameters. Unknown parameters
// are ignored; malformed known ones are rejected.
func FilterFromQuery(q url.Values) (Filter, error) {
	var f Filter

	if v := q.Get("gender"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < int(GenderMale) || n > int(GenderNone) {
			return f, fmt.Errorf("invalid gender")
		}
		f.Gender = Gender(n)
	}
	if v := q.Get("birth"); v != "" {
		t, err := time.Parse(DateFormat, v)
		if err != nil {
			return f, fmt.Errorf("invalid date format")
		}
		f.Birth = t
	}
	if v := q.Get("newsletterCampaign"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return f, fmt.Errorf("invalid newsletterCampaign")
		}
		f.NewsletterCampaign = n
	}
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("invalid skip")
		}
		f.Skip = n
	}
	if v := q.Get("take"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("invalid take")
		}
		f.Take = n
	}
	return f, nil
}

// EmailJob is the payload transported through the job queue.
type EmailJob struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
	Token   string `json:"token"`
}

// DeletionResult reports how many rows a delete removed.
type DeletionResult struct {
	Affected int64 `json:"affected"`
}
