// Package parser extracts a structured message record from a natural
// language instruction using fixed regex patterns. The resolution engine
// never sees free text; it consumes the Message this package produces.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Message is the structured record handed to the automation layer.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Defaults used when an instruction doesn't carry the component.
const (
	DefaultRecipient = "example@email.com"
	DefaultSubject   = "Automated Message"
)

var recipientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`send.*?email.*?to\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`email\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`to\s+([a-zA-Z@.]+)`),
	regexp.MustCompile(`send.*?to\s+(\w+)`),
}

var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`about\s+(.+?)(?:\.|$)`),
	regexp.MustCompile(`regarding\s+(.+?)(?:\.|$)`),
	regexp.MustCompile(`subject\s+(.+?)(?:\.|$)`),
}

// Parse extracts recipient, subject, and body from an instruction such
// as "send an email to jane@example.com about the deadline". Missing
// components fall back to defaults; parsing never fails.
func Parse(instruction string) Message {
	lower := strings.ToLower(instruction)

	recipient := DefaultRecipient
	for _, pattern := range recipientPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			recipient = m[1]
			break
		}
	}

	subject := DefaultSubject
	for _, pattern := range subjectPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			subject = titleCase(strings.TrimSpace(m[1]))
			break
		}
	}

	body := fmt.Sprintf("Hello,\n\nThis is an automated message regarding: %s\n\nBest regards", subject)

	return Message{
		To:      recipient,
		Subject: subject,
		Body:    body,
	}
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
