package locate

// Reference set of known city names for heuristic extraction. A small,
// hard-coded list kept as configuration data; matching is case-insensitive
// substring. Ordered so extraction results are stable.
var knownCities = []string{
	"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia",
	"san antonio", "san diego", "dallas", "san jose", "austin", "seattle",
	"denver", "boston", "miami", "atlanta", "london", "paris", "tokyo",
	"sydney", "toronto", "vancouver", "berlin", "madrid", "rome", "amsterdam",
}

// Vague terms that are rejected as ambiguous.
var vagueTerms = map[string]struct{}{
	"here":      {},
	"there":     {},
	"somewhere": {},
	"nearby":    {},
	"local":     {},
	"area":      {},
}

// Capitalized phrases after a location preposition that are not locations.
var prepositionStopwords = map[string]struct{}{
	"the":  {},
	"a":    {},
	"an":   {},
	"my":   {},
	"our":  {},
	"this": {},
	"that": {},
}
