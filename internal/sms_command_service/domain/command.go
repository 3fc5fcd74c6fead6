package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Group tags accepted in the "@tag:" command prefix.
const (
	GroupAll       = "all"
	GroupPresident = "president"
	GroupAdmin     = "admin"
	GroupPR        = "pr"
	GroupS1        = "s1"
	GroupS2        = "s2"
	GroupA1        = "a1"
	GroupA2        = "a2"
	GroupT1        = "t1"
	GroupT2        = "t2"
	GroupB1        = "b1"
	GroupB2        = "b2"
)

// VoiceSectionGroups lists the tags that select a voice part.
var VoiceSectionGroups = []string{GroupS1, GroupS2, GroupA1, GroupA2, GroupT1, GroupT2, GroupB1, GroupB2}

var knownGroups = map[string]struct{}{
	GroupAll: {}, GroupPresident: {}, GroupAdmin: {}, GroupPR: {},
	GroupS1: {}, GroupS2: {}, GroupA1: {}, GroupA2: {},
	GroupT1: {}, GroupT2: {}, GroupB1: {}, GroupB2: {},
}

// IsKnownGroup reports whether tag (any case) belongs to the command vocabulary.
func IsKnownGroup(tag string) bool {
	_, ok := knownGroups[strings.ToLower(tag)]
	return ok
}

const (
	// TitleMaxRunes bounds the derived notification title.
	TitleMaxRunes = 50
	// TitleEllipsis marks a title that is shorter than its message.
	TitleEllipsis = "..."
	// DefaultTitle is used when the message text is empty.
	DefaultTitle = "SMS Notification"
)

var groupTagPattern = regexp.MustCompile(`(?s)^@([A-Za-z0-9_]+):\s*(.*)$`)

// ParsedCommand is the interpretation of an inbound body.
type ParsedCommand struct {
	Group   string `json:"group"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ParseCommand splits body into an optional group tag and a title/message
// pair. It never fails: unknown tags fall back to GroupAll with the whole
// trimmed body as the message.
func ParseCommand(body string) ParsedCommand {
	trimmed := strings.TrimSpace(body)
	cmd := ParsedCommand{Group: GroupAll, Message: trimmed}

	if m := groupTagPattern.FindStringSubmatch(trimmed); m != nil && IsKnownGroup(m[1]) {
		cmd.Group = strings.ToLower(m[1])
		cmd.Message = strings.TrimSpace(m[2])
	}

	cmd.Title = deriveTitle(cmd.Message)
	return cmd
}

func deriveTitle(message string) string {
	if message == "" {
		return DefaultTitle
	}

	var title string
	if idx := strings.IndexAny(message, ".!?"); idx >= 0 && utf8.RuneCountInString(message[:idx]) <= TitleMaxRunes {
		title = strings.TrimRight(message[:idx], " \t\r\n")
	}
	if title == "" {
		title = message
		if utf8.RuneCountInString(message) > TitleMaxRunes {
			title = strings.TrimRight(string([]rune(message)[:TitleMaxRunes]), " \t\r\n")
		}
	}

	if len(title) < len(message) {
		title += TitleEllipsis
	}
	return title
}
