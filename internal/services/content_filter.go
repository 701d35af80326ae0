package services

import (
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
}

// FraudWords are rejected in inquiries only. Listings may legitimately
// describe fraud prevention or security businesses.
var FraudWords = []string{"scam", "scammer", "phishing", "malware"}

// Policy selects the checks applied to a piece of text.
type Policy struct {
	// AllowContact lets email addresses and phone numbers through.
	AllowContact bool
	// RejectFraudWords adds FraudWords to the banned list.
	RejectFraudWords bool
}

var (
	// ListingPolicy screens seller-written listing text.
	ListingPolicy = Policy{AllowContact: true}
	// InquiryPolicy screens investor messages.
	InquiryPolicy = Policy{RejectFraudWords: true}
)

const (
	ReasonInappropriateLanguage = "inappropriate_language"
	ReasonContactInfo           = "contact_info_not_allowed"
	ReasonSpam                  = "spam_detected"
	ReasonExcessiveCaps         = "excessive_caps"
)

var rejectionMessages = map[string]string{
	ReasonInappropriateLanguage: "contains inappropriate language",
	ReasonContactInfo:           "must not contain contact information",
	ReasonSpam:                  "appears to be spam",
	ReasonExcessiveCaps:         "uses excessive capital letters",
}

// ContentFilter screens user-written text. It is safe for concurrent use
// once constructed.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	fraudWordRegexps    []*regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWordRegexps: wordRegexps(BannedWords),
		fraudWordRegexps:  wordRegexps(FraudWords),
	}
	f.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// International numbers need a leading +, local ones the 07 mobile prefix,
	// so plain amounts such as 250000000 are not mistaken for phones.
	f.phonePattern = regexp.MustCompile(`\+\d{1,3}[-\s]?\d{2,3}[-\s]?\d{3}[-\s]?\d{3,4}|\b07\d{8}\b|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	repeats := make([]string, 0, 29)
	for c := 'a'; c <= 'z'; c++ {
		repeats = append(repeats, string(c)+"{4,}")
	}
	repeats = append(repeats, `!{4,}`, `\?{4,}`, `\.{4,}`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(` + strings.Join(repeats, "|") + `)`)
	f.allCapsPattern = regexp.MustCompile(`\b[A-Z]{5,}\b`)
	return f
}

func wordRegexps(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, word := range words {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return out
}

// Check returns an empty reason when text is acceptable under p.
func (f *ContentFilter) Check(text string, p Policy) string {
	return f.check(text, p, true)
}

func (f *ContentFilter) check(text string, p Policy, caps bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if matchAny(f.bannedWordRegexps, text) || (p.RejectFraudWords && matchAny(f.fraudWordRegexps, text)) {
		return ReasonInappropriateLanguage
	}
	if !p.AllowContact && (f.emailPattern.MatchString(text) || f.phonePattern.MatchString(text)) {
		return ReasonContactInfo
	}
	if f.repeatedCharPattern.MatchString(text) {
		return ReasonSpam
	}
	if caps && len(f.allCapsPattern.FindAllString(text, -1)) > 2 {
		return ReasonExcessiveCaps
	}
	return ""
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Screen checks each named field and reports the first rejection as a
// validation error.
func (f *ContentFilter) Screen(p Policy, fields ...Field) error {
	if f == nil {
		return nil
	}
	for _, fld := range fields {
		if reason := f.check(fld.Value, p, !fld.AllowCaps); reason != "" {
			return &apperr.Error{
				Kind:    apperr.KindValidation,
				Message: fld.Name + " " + rejectionMessages[reason],
				Err:     ContentRejection(reason),
			}
		}
	}
	return nil
}

// Field is a named piece of user text.
type Field struct {
	Name  string
	Value string
	// AllowCaps skips the capital letters rule, for titles and names that
	// are commonly written in upper case.
	AllowCaps bool
}

// ContentRejection is the reason code behind a screening failure.
type ContentRejection string

func (r ContentRejection) Error() string { return string(r) }
