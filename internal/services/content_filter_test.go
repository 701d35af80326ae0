package services

import (
	"errors"
	"testing"
)

func TestContentFilterCheck(t *testing.T) {
	f := NewContentFilter()
	tests := []struct {
		name   string
		text   string
		policy Policy
		want   string
	}{
		{"clean", "Profitable coffee washing station in Huye", InquiryPolicy, ""},
		{"price is not a phone", "Asking 250000000 RWF, negotiable", InquiryPolicy, ""},
		{"banned word", "total bullshit", ListingPolicy, ReasonInappropriateLanguage},
		{"fraud word in inquiry", "this is a scam", InquiryPolicy, ReasonInappropriateLanguage},
		{"fraud word in listing", "Anti-scam payment verification startup", ListingPolicy, ""},
		{"email blocked", "write to me at owner@example.com", InquiryPolicy, ReasonContactInfo},
		{"email allowed in listings", "write to me at owner@example.com", ListingPolicy, ""},
		{"international phone", "call +250 788 123 456", InquiryPolicy, ReasonContactInfo},
		{"local mobile", "call 0788123456", InquiryPolicy, ReasonContactInfo},
		{"repeated chars", "greaaaaat deal!!!!", ListingPolicy, ReasonSpam},
		{"caps", "HUGE PROFIT GUARANTEED TODAY", ListingPolicy, ReasonExcessiveCaps},
		{"short acronyms ok", "RDB and RRA registered", ListingPolicy, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Check(tt.text, tt.policy); got != tt.want {
				t.Errorf("Check(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestContentFilterScreenAllowCaps(t *testing.T) {
	f := NewContentFilter()
	title := "RWANDA KIGALI COFFEE EXPORT"

	if err := f.Screen(ListingPolicy, Field{Name: "title", Value: title, AllowCaps: true}); err != nil {
		t.Fatalf("upper case title should pass: %v", err)
	}

	err := f.Screen(ListingPolicy, Field{Name: "description", Value: title})
	var rejection ContentRejection
	if !errors.As(err, &rejection) || rejection != ReasonExcessiveCaps {
		t.Fatalf("expected excessive_caps outside titles, got %v", err)
	}

	err = f.Screen(ListingPolicy, Field{Name: "title", Value: "Total bullshit", AllowCaps: true})
	if !errors.As(err, &rejection) || rejection != ReasonInappropriateLanguage {
		t.Fatalf("AllowCaps must not skip other checks, got %v", err)
	}
}

func TestContentFilterScreenNil(t *testing.T) {
	var f *ContentFilter
	if err := f.Screen(InquiryPolicy, Field{Name: "message", Value: "anything"}); err != nil {
		t.Fatalf("nil filter should accept everything: %v", err)
	}
}
