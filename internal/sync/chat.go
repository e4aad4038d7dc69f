// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"regexp"
	"strings"

	"github.com/tomtom215/runestatus-sync/internal/host"
)

// MaxRecentDrops bounds the recent-drops list kept per session.
const MaxRecentDrops = 20

// DropFamily groups chat phrases that announce the same kind of event.
type DropFamily string

// Phrase families.
const (
	FamilyCollectionLog DropFamily = "collection_log"
	FamilyPet           DropFamily = "pet"
	FamilyValuableDrop  DropFamily = "valuable_drop"
)

type chatPattern struct {
	family DropFamily
	re     *regexp.Regexp // first submatch, if any, is the item name
}

var chatPatterns = []chatPattern{
	{FamilyCollectionLog, regexp.MustCompile(`New item added to your collection log: (.+)`)},
	{FamilyPet, regexp.MustCompile(`You have a funny feeling like you(?:'re being followed| would have been followed)`)},
	{FamilyPet, regexp.MustCompile(`You feel something weird sneaking into your backpack`)},
	{FamilyValuableDrop, regexp.MustCompile(`(?:Valuable|Untradeable) drop: (.+)`)},
}

var (
	chatTagPattern  = regexp.MustCompile(`<[^>]*>`)
	trailingValueRE = regexp.MustCompile(`\s*\([\d,]+ coins?\)\s*$`)
)

// ChatMatch is a recognised announcement.
type ChatMatch struct {
	Family DropFamily
	Item   string // empty when the phrase names no item
}

// MatchChat checks a chat message against the known phrase families. Only
// game and spam messages are considered.
func MatchChat(msgType, text string) (ChatMatch, bool) {
	if msgType != host.ChatGameMessage && msgType != host.ChatSpam {
		return ChatMatch{}, false
	}
	clean := chatTagPattern.ReplaceAllString(text, "")
	for _, p := range chatPatterns {
		m := p.re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		match := ChatMatch{Family: p.family}
		if len(m) > 1 {
			match.Item = strings.TrimSpace(trailingValueRE.ReplaceAllString(m[1], ""))
		}
		return match, true
	}
	return ChatMatch{}, false
}

// RecentDrops is a bounded list of item names, oldest first.
type RecentDrops struct {
	items []string
}

// Add appends name, dropping the oldest entry past MaxRecentDrops. Empty
// names are ignored.
func (r *RecentDrops) Add(name string) {
	if name == "" {
		return
	}
	r.items = append(r.items, name)
	if len(r.items) > MaxRecentDrops {
		r.items = append(r.items[:0:0], r.items[len(r.items)-MaxRecentDrops:]...)
	}
}

// RecentDrops returns a copy of the list. The result is never nil.
func (r *RecentDrops) RecentDrops() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Reset empties the list.
func (r *RecentDrops) Reset() {
	r.items = nil
}

// Len returns the number of names held.
func (r *RecentDrops) Len() int { return len(r.items) }
