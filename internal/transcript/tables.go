package transcript

// topicStopWords excludes common capitalized English words from topic
// extraction.
var topicStopWords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"There": true, "Then": true, "They": true,
	"What": true, "When": true, "Where": true, "Which": true, "While": true,
	"Who": true, "Why": true, "How": true,
	"And": true, "But": true, "For": true, "Not": true, "With": true,
	"From": true, "Into": true, "Over": true,
	"Can": true, "Could": true, "Would": true, "Should": true, "Will": true,
	"May": true, "Might": true,
	"Use": true, "Used": true, "Using": true, "Make": true, "Made": true,
	"Get": true, "Got": true, "Set": true,
	"Run": true, "Let": true, "See": true, "Try": true, "Add": true,
	"Check": true, "Show": true, "Find": true,
	"Create": true, "Update": true, "Delete": true, "Remove": true,
	"Change": true, "Move": true,
	"Yes": true, "No": true, "Ok": true, "Sure": true, "Thanks": true,
	"Please": true, "Also": true,
	"Here": true, "Now": true, "Just": true, "All": true, "Any": true,
	"Some": true, "Each": true, "Every": true,
	"New": true, "Old": true, "First": true, "Last": true, "Next": true,
	"Other": true, "More": true, "Most": true,
	"Need": true, "Want": true, "Like": true, "Look": true, "Take": true,
	"Give": true, "Keep": true, "Put": true,
	"Does": true, "Did": true, "Has": true, "Have": true, "Had": true,
	"Was": true, "Were": true, "Are": true,
	"Fix": true, "Help": true, "Start": true, "Stop": true, "Open": true,
	"Close": true, "Read": true, "Write": true,
}

// trivialMessages are acknowledgements skipped when building the
// one-line summary.
var trivialMessages = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"thanks": true, "y": true, "n": true, "continue": true,
	"go ahead": true, "do it": true,
}

// errorIndicators mark a tool result as a failure even when the
// is_error flag is unset. Matching is case-insensitive.
var errorIndicators = []string{
	"error:", "failed", "exception", "traceback",
	"permission denied", "not found", "command not found",
}

// continuationWords hint that the last message of a session describes
// unfinished work.
var continuationWords = []string{"todo", "next", "later", "continue", "finish"}
