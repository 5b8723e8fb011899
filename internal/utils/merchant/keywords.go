package merchant

import "strings"

// subscriptionKeywords flag merchants whose payments behave like
// subscriptions: slightly drifting amounts and looser billing cadence.
// Matching relaxes the detector's amount and periodicity tolerances.
var subscriptionKeywords = []string{
	"netflix", "spotify", "youtube", "megogo", "apple", "icloud",
	"google", "microsoft", "adobe", "dropbox", "patreon", "playstation",
	"xbox", "steam", "kyivstar", "vodafone", "lifecell",
	"subscription", "premium", "membership", "підписка",
}

// IsSubscriptionLike reports whether a normalized merchant name matches the
// subscription keyword heuristic.
func IsSubscriptionLike(normalized string) bool {
	for _, kw := range subscriptionKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// DefaultCategory is assigned when no keyword group matches.
const DefaultCategory = "other"

// categoryRule maps a keyword group to a category tag. Rules are ordered;
// the first matching group wins.
type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{[]string{"netflix", "megogo", "youtube", "spotify", "steam", "playstation", "xbox", "cinema", "kino"}, "entertainment"},
	{[]string{"kyivstar", "vodafone", "lifecell", "internet", "telecom"}, "communication"},
	{[]string{"icloud", "google", "microsoft", "adobe", "dropbox", "patreon", "apple"}, "services"},
	{[]string{"silpo", "atb", "novus", "auchan", "metro", "fora", "varus", "supermarket", "grocery"}, "groceries"},
	{[]string{"mcdonald", "kfc", "starbucks", "café", "cafe", "restaurant", "pizza", "sushi", "glovo", "bolt food"}, "food"},
	{[]string{"uber", "bolt", "uklon", "taxi", "metro", "fuel", "wog", "okko", "socar"}, "transport"},
	{[]string{"apteka", "pharmacy", "clinic", "hospital", "dentist"}, "health"},
	{[]string{"gym", "fitness", "sport", "yoga", "pool"}, "sport"},
	{[]string{"rent", "oren", "komunal", "utilities", "yasno", "kyivenergo", "water", "gas"}, "housing"},
	{[]string{"school", "course", "udemy", "coursera", "prometheus", "education"}, "education"},
}

// InferCategories matches a normalized merchant name against the ordered
// category keyword table. First matching group wins; unmatched merchants
// get the default category.
func InferCategories(normalized string) []string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return []string{rule.category}
			}
		}
	}
	return []string{DefaultCategory}
}
