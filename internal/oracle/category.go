package oracle

import "fmt"

// Category is the sentiment bucket a response belongs to.
type Category string

const (
	Positive Category = "positive"
	Neutral  Category = "neutral"
	Negative Category = "negative"
)

// Categories lists every category in display order.
var Categories = []Category{Positive, Neutral, Negative}

// ParseCategory returns the Category named by s. The set is closed; any
// other name is an error.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: must be one of positive, neutral, negative", s)
}
