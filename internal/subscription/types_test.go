package subscription

import (
	"net/url"
	"testing"
	"time"
)

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("gender", "2")
	q.Set("birth", "1996-06-20")
	q.Set("newsletterCampaign", "3")
	q.Set("skip", "10")
	q.Set("take", "5")

	f, err := FilterFromQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	if f.Gender != GenderFemale || f.NewsletterCampaign != 3 || f.Skip != 10 || f.Take != 5 {
		t.Fatalf("got %+v", f)
	}
	want := time.Date(1996, 6, 20, 0, 0, 0, 0, time.UTC)
	if !f.Birth.Equal(want) {
		t.Fatalf("birth = %v", f.Birth)
	}
}

func TestFilterFromQuery_Empty(t *testing.T) {
	f, err := FilterFromQuery(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if f != (Filter{}) {
		t.Fatalf("got %+v", f)
	}
}

func TestFilterFromQuery_Rejects(t *testing.T) {
	for name, q := range map[string]url.Values{
		"gender out of range":   {"gender": {"9"}},
		"gender not a number":   {"gender": {"female"}},
		"birth wrong format":    {"birth": {"20.06.1996"}},
		"campaign not positive": {"newsletterCampaign": {"0"}},
		"negative skip":         {"skip": {"-1"}},
		"take not a number":     {"take": {"ten"}},
	} {
		if _, err := FilterFromQuery(q); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFilterPaginated(t *testing.T) {
	if (Filter{Skip: 10}).Paginated() {
		t.Fatal("skip alone must not paginate")
	}
	if (Filter{Take: 10}).Paginated() {
		t.Fatal("take alone must not paginate")
	}
	if !(Filter{Skip: 10, Take: 5}).Paginated() {
		t.Fatal("skip and take together must paginate")
	}
}

func TestCreateReqSubscription(t *testing.T) {
	consent := true
	g := GenderMale
	req := CreateReq{
		Email:              "a@x.com",
		FirstName:          "Ada",
		Gender:             &g,
		Birth:              "1996-06-20",
		Consent:            &consent,
		NewsletterCampaign: 7,
	}

	sub := req.Subscription()
	if sub.Email != "a@x.com" || sub.FirstName != "Ada" || sub.Gender != GenderMale {
		t.Fatalf("got %+v", sub)
	}
	if !sub.Consent || sub.NewsletterCampaign != 7 {
		t.Fatalf("got %+v", sub)
	}
	if sub.Birth.Format(DateFormat) != "1996-06-20" {
		t.Fatalf("birth = %v", sub.Birth)
	}
}
