package ticket

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
)

// MapZendeskStatus maps a Zendesk status to the local issue status
func MapZendeskStatus(raw string) entities.IssueStatus {
	switch normalize(raw) {
	case "new", "open":
		return entities.IssueStatusOpen
	case "pending", "hold", "on-hold":
		return entities.IssueStatusInProgress
	case "solved":
		return entities.IssueStatusResolved
	case "closed":
		return entities.IssueStatusClosed
	}
	return entities.IssueStatusOpen
}

// MapZendeskPriority maps a Zendesk priority; unknown or empty is MEDIUM
func MapZendeskPriority(raw string) entities.IssuePriority {
	switch normalize(raw) {
	case "low":
		return entities.IssuePriorityLow
	case "normal":
		return entities.IssuePriorityMedium
	case "high":
		return entities.IssuePriorityHigh
	case "urgent":
		return entities.IssuePriorityUrgent
	}
	return entities.IssuePriorityMedium
}

// MapZendeskType maps a Zendesk ticket type; unknown or empty is QUESTION
func MapZendeskType(raw string) entities.TicketType {
	switch normalize(raw) {
	case "problem":
		return entities.TicketTypeProblem
	case "incident":
		return entities.TicketTypeIncident
	case "question":
		return entities.TicketTypeQuestion
	case "task":
		return entities.TicketTypeTask
	}
	return entities.TicketTypeQuestion
}

// vendorStatusLabels are common helpdesk states matched verbatim
var vendorStatusLabels = map[string]entities.VendorTicketStatus{
	"new":               entities.VendorTicketStatusOpen,
	"open":              entities.VendorTicketStatusOpen,
	"reopened":          entities.VendorTicketStatusOpen,
	"submitted":         entities.VendorTicketStatusOpen,
	"unassigned":        entities.VendorTicketStatusOpen,
	"unresolved":        entities.VendorTicketStatusOpen,
	"in progress":       entities.VendorTicketStatusInProgress,
	"assigned":          entities.VendorTicketStatusInProgress,
	"pending":           entities.VendorTicketStatusWaiting,
	"on hold":           entities.VendorTicketStatusWaiting,
	"awaiting customer": entities.VendorTicketStatusWaiting,
	"resolved":          entities.VendorTicketStatusResolved,
	"solved":            entities.VendorTicketStatusResolved,
	"fixed":             entities.VendorTicketStatusResolved,
	"closed":            entities.VendorTicketStatusClosed,
	"cancelled":         entities.VendorTicketStatusClosed,
	"canceled":          entities.VendorTicketStatusClosed,
}

// vendorStatusStems are tried in order against each word; the first hit wins
var vendorStatusStems = []struct {
	status entities.VendorTicketStatus
	stems  []string
}{
	{entities.VendorTicketStatusClosed, []string{"closed", "cancel"}},
	{entities.VendorTicketStatusResolved, []string{"resolv", "solved", "fixed", "complet", "done"}},
	{entities.VendorTicketStatusWaiting, []string{"wait", "await", "pending", "hold"}},
	{entities.VendorTicketStatusInProgress, []string{"progress", "working", "assigned", "investigat", "escalat"}},
}

// vendorPriorityLabels are common helpdesk priorities matched verbatim
var vendorPriorityLabels = map[string]entities.IssuePriority{
	"highest":  entities.IssuePriorityUrgent,
	"blocker":  entities.IssuePriorityUrgent,
	"critical": entities.IssuePriorityUrgent,
	"urgent":   entities.IssuePriorityUrgent,
	"high":     entities.IssuePriorityHigh,
	"major":    entities.IssuePriorityHigh,
	"medium":   entities.IssuePriorityMedium,
	"normal":   entities.IssuePriorityMedium,
	"moderate": entities.IssuePriorityMedium,
	"low":      entities.IssuePriorityLow,
	"lowest":   entities.IssuePriorityLow,
	"minor":    entities.IssuePriorityLow,
	"trivial":  entities.IssuePriorityLow,
}

var vendorPriorityWords = []struct {
	priority entities.IssuePriority
	words    []string
}{
	{entities.IssuePriorityUrgent, []string{"critical", "urgent", "blocker", "emergency"}},
	{entities.IssuePriorityHigh, []string{"high", "major"}},
	{entities.IssuePriorityLow, []string{"low", "minor", "trivial"}},
	{entities.IssuePriorityMedium, []string{"medium", "normal", "moderate"}},
}

// vendorLevel matches P1, SEV-2, "severity 3" and similar numbered levels
var vendorLevel = regexp.MustCompile(`\b(?:p|sev|severity|priority)\s*-?\s*(\d+)\b`)

// negations flip the meaning of the word that follows them
var negations = map[string]bool{"not": true, "non": true, "no": true}

// MapVendorStatus maps free-text vendor helpdesk states; unknown is OPEN.
// Negated words ("not resolved") never count toward a state.
func MapVendorStatus(raw string) entities.VendorTicketStatus {
	words := vendorWords(raw)
	if status, ok := vendorStatusLabels[strings.Join(words, " ")]; ok {
		return status
	}
	for _, rule := range vendorStatusStems {
		if hasWord(words, func(w string) bool { return hasAnyPrefix(w, rule.stems) }) {
			return rule.status
		}
	}
	return entities.VendorTicketStatusOpen
}

// MapVendorPriority maps free-text vendor priorities (P1..P4, words); unknown is MEDIUM
func MapVendorPriority(raw string) entities.IssuePriority {
	words := vendorWords(raw)
	joined := strings.Join(words, " ")
	if priority, ok := vendorPriorityLabels[joined]; ok {
		return priority
	}
	if m := vendorLevel.FindStringSubmatch(joined); m != nil {
		level, _ := strconv.Atoi(m[1])
		switch level {
		case 0, 1:
			return entities.IssuePriorityUrgent
		case 2:
			return entities.IssuePriorityHigh
		case 3:
			return entities.IssuePriorityMedium
		case 4:
			return entities.IssuePriorityLow
		}
	}
	for _, rule := range vendorPriorityWords {
		if hasWord(words, func(w string) bool { return slices.Contains(rule.words, w) }) {
			return rule.priority
		}
	}
	return entities.IssuePriorityMedium
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// vendorWords lower-cases raw and splits it on anything but letters and digits
func vendorWords(raw string) []string {
	return strings.FieldsFunc(normalize(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hasWord reports whether a word not preceded by a negation satisfies match
func hasWord(words []string, match func(string) bool) bool {
	for i, w := range words {
		if i > 0 && negations[words[i-1]] {
			continue
		}
		if match(w) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
