package git

import (
	"regexp"
)

// ExtractIssueKey returns the issue key a commit summary opens with.
// issueKeyRegex must anchor at the start of the summary and capture the key in group 1.
func ExtractIssueKey(summary string, issueKeyRegex *regexp.Regexp) (string, bool) {
	if issueKeyRegex == nil {
		return "", false
	}

	match := issueKeyRegex.FindStringSubmatch(summary)
	if len(match) < 2 || match[1] == "" {
		return "", false
	}
	return match[1], true
}
