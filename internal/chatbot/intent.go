// Package chatbot answers a handful of booking questions typed in English
// or Vietnamese.
package chatbot

import (
	"strings"

	"roomdesk/internal/common/utils"
)

type Intent string

const (
	IntentUnknown        Intent = "unknown"
	IntentGreeting       Intent = "greeting"
	IntentMeetingsToday  Intent = "meetings_today"
	IntentAvailableRooms Intent = "available_rooms"
	IntentHelp           Intent = "help"
)

// Phrases are matched after folding, so they are written without
// diacritics. Earlier intents win.
var phrases = []struct {
	intent  Intent
	phrases []string
}{
	{IntentHelp, []string{"help", "what can you do", "giup", "tro giup", "huong dan"}},
	{IntentMeetingsToday, []string{
		"meetings today", "meeting today", "my meetings", "today's meetings", "schedule today",
		"lich hop hom nay", "cuoc hop hom nay", "hop hom nay", "lich hom nay", "lich cua toi",
	}},
	{IntentAvailableRooms, []string{
		"available room", "available rooms", "free room", "free rooms", "empty rooms",
		"rooms available", "rooms free",
		"phong trong", "phong con trong", "phong nao trong",
	}},
	{IntentGreeting, []string{"hello", "hi", "hey", "good morning", "xin chao", "chao"}},
}

// Detect classifies a message.
func Detect(message string) Intent {
	text := " " + utils.Fold(message) + " "
	text = strings.NewReplacer("?", " ", "!", " ", ".", " ", ",", " ").Replace(text)
	text = " " + strings.Join(strings.Fields(text), " ") + " "

	for _, p := range phrases {
		for _, phrase := range p.phrases {
			if strings.Contains(text, " "+phrase+" ") {
				return p.intent
			}
		}
	}
	return IntentUnknown
}
