package schema

// ClaimReviewJSONSchema returns the JSON Schema document describing the
// ClaimReview shape. It is sent to the provider as a structured-output
// constraint; the provider is expected to emit JSON conforming to it.
func ClaimReviewJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"@context", "@type", "claimReviewed", "author", "datePublished",
			"reviewRating", "url", "reviewBody", "itemReviewed",
		},
		"properties": map[string]any{
			"@context":      map[string]any{"type": "string"},
			"@type":         map[string]any{"type": "string"},
			"claimReviewed": map[string]any{"type": "string"},
			"author": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"@type", "name"},
				"properties": map[string]any{
					"@type": map[string]any{"type": "string"},
					"name":  map[string]any{"type": "string"},
				},
			},
			"datePublished": map[string]any{"type": "string"},
			"reviewRating": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required": []string{
					"@type", "ratingValue", "alternateName", "bestRating", "worstRating",
				},
				"properties": map[string]any{
					"@type": map[string]any{"type": "string"},
					"ratingValue": map[string]any{
						"type": "string",
						"enum": []string{"0", "1", "2", "3", "4", "5"},
					},
					"alternateName": map[string]any{"type": "string"},
					"bestRating":    map[string]any{"type": "string"},
					"worstRating":   map[string]any{"type": "string"},
				},
			},
			"url":        map[string]any{"type": "string"},
			"reviewBody": map[string]any{"type": "string"},
			"itemReviewed": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"@type", "url"},
				"properties": map[string]any{
					"@type": map[string]any{"type": "string"},
					"url": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
