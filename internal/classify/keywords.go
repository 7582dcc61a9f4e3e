package classify

// Keyword reference sets for activity classification. These are intentionally
// small, hard-coded heuristic lists, kept as configuration data rather than
// algorithmic logic; extending them does not change the classifier contract.
// Slices (not maps) so that matched activities come back in a stable order.

var outdoorActivities = []string{
	"picnic", "hiking", "hike", "camping", "camp", "beach", "swimming", "swim",
	"bbq", "barbecue", "garden", "gardening", "cycling", "bike", "biking",
	"running", "run", "jogging", "jog", "walking", "walk", "fishing", "fish",
	"golf", "tennis", "soccer", "football", "baseball", "park", "outdoor",
	"festival", "concert", "fair", "market", "parade", "wedding", "ceremony",
	"photography", "photoshoot", "zoo", "amusement park", "theme park",
	"kayaking", "surfing", "sailing", "boating", "climbing", "skiing",
}

var indoorActivities = []string{
	"meeting", "movie", "cinema", "theater", "theatre", "museum", "shopping",
	"dinner", "lunch", "restaurant", "cafe", "coffee", "gym", "workout",
	"office", "work", "study", "library", "class", "lecture", "presentation",
	"interview", "doctor", "dentist", "appointment", "spa", "massage",
	"bowling", "arcade", "escape room", "concert hall", "opera",
}
