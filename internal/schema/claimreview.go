// Package schema defines the canonical ClaimReview output document and the
// JSON Schema description sent to the model provider.
package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// AuthorName is the fixed organization identity stamped on every review.
const AuthorName = "WordLift"

// ReviewBaseURL is the permalink prefix for published fact-check pages.
const ReviewBaseURL = "https://fact-check.wordlift.io/review/"

// Rating values form a fixed six-point scale. ratingValue is a string per
// the schema.org ClaimReview vocabulary.
const (
	RatingUncertain   = "0"
	RatingPantsOnFire = "1"
	RatingFalse       = "2"
	RatingHalfTrue    = "3"
	RatingMostlyTrue  = "4"
	RatingTrue        = "5"
)

// ratingLabels maps each ratingValue to its alternateName label.
var ratingLabels = map[string]string{
	RatingUncertain:   "Uncertain",
	RatingPantsOnFire: "Pants on Fire",
	RatingFalse:       "False",
	RatingHalfTrue:    "Half True",
	RatingMostlyTrue:  "Mostly True",
	RatingTrue:        "True",
}

// RatingLabel returns the alternateName for a ratingValue, or "" if the
// value is not on the scale.
func RatingLabel(value string) string {
	return ratingLabels[value]
}

// Organization is the schema.org Organization that authored the review.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Rating is the schema.org Rating carried by a ClaimReview.
type Rating struct {
	Type          string `json:"@type"`
	RatingValue   string `json:"ratingValue"`
	AlternateName string `json:"alternateName"`
	BestRating    string `json:"bestRating"`
	WorstRating   string `json:"worstRating"`
}

// ItemReviewed is the schema.org CreativeWork listing the cited source URLs.
type ItemReviewed struct {
	Type string   `json:"@type"`
	URL  []string `json:"url"`
}

// ClaimReview is the structured fact-check verdict, modeled on the
// schema.org ClaimReview vocabulary. It is produced by the evaluation step
// and returned to the caller verbatim.
type ClaimReview struct {
	Context       string       `json:"@context"`
	Type          string       `json:"@type"`
	ClaimReviewed string       `json:"claimReviewed"`
	Author        Organization `json:"author"`
	DatePublished string       `json:"datePublished"`
	ReviewRating  Rating       `json:"reviewRating"`
	URL           string       `json:"url"`
	ReviewBody    string       `json:"reviewBody"`
	ItemReviewed  ItemReviewed `json:"itemReviewed"`
}

// Validate checks that the review carries every required field and that the
// rating is a member of the fixed scale with a matching label. It is called
// by the gateway before a structured response is returned.
func (r *ClaimReview) Validate() error {
	if r.ClaimReviewed == "" {
		return fmt.Errorf("schema: claimReviewed is empty")
	}
	if r.DatePublished == "" {
		return fmt.Errorf("schema: datePublished is empty")
	}
	if r.ReviewBody == "" {
		return fmt.Errorf("schema: reviewBody is empty")
	}
	label, ok := ratingLabels[r.ReviewRating.RatingValue]
	if !ok {
		return fmt.Errorf("schema: ratingValue %q is not on the 0-5 scale", r.ReviewRating.RatingValue)
	}
	if r.ReviewRating.AlternateName != label {
		return fmt.Errorf("schema: alternateName %q does not match scale label %q for rating %s",
			r.ReviewRating.AlternateName, label, r.ReviewRating.RatingValue)
	}
	return nil
}

// Slug converts a claim into a URL-safe slug: lowercased, non-alphanumeric
// runs collapsed to single hyphens, trimmed of leading/trailing hyphens.
func Slug(claim string) string {
	var sb strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(claim) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// ReviewURL derives the permalink for a claim.
func ReviewURL(claim string) string {
	return ReviewBaseURL + Slug(claim)
}
