// Package render produces output from a completed ClaimReview.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wordlift/factcheck/internal/schema"
)

// JSON produces a pretty-printed JSON representation of the review.
func JSON(review *schema.ClaimReview) ([]byte, error) {
	if review == nil {
		return nil, fmt.Errorf("render: nil review")
	}
	b, err := json.MarshalIndent(review, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// Text produces a terminal-friendly summary of the review.
func Text(review *schema.ClaimReview) string {
	if review == nil {
		return ""
	}
	var sb strings.Builder

	fmt.Fprintf(&sb, "Claim:   %s\n", review.ClaimReviewed)
	fmt.Fprintf(&sb, "Verdict: %s (%s/%s)\n",
		review.ReviewRating.AlternateName,
		review.ReviewRating.RatingValue,
		review.ReviewRating.BestRating)
	fmt.Fprintf(&sb, "Date:    %s\n", review.DatePublished)
	fmt.Fprintf(&sb, "\n%s\n", review.ReviewBody)

	if len(review.ItemReviewed.URL) > 0 {
		sb.WriteString("\nSources:\n")
		for _, u := range review.ItemReviewed.URL {
			fmt.Fprintf(&sb, "  - %s\n", u)
		}
	}
	fmt.Fprintf(&sb, "\nPermalink: %s\n", review.URL)

	return sb.String()
}
