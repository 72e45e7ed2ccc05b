package session

import "github.com/sociogram-live/influence-lab/internal/channels"

// Question is one nomination prompt tied to a channel.
type Question struct {
	Text    string           `json:"text"`
	Channel channels.Channel `json:"channel" validate:"omitempty,oneof=cognitive creative technical social"`
}

// DefaultQuestions returns the built-in bank: twenty prompts, five per
// channel. The caller receives a fresh copy safe to shuffle.
func DefaultQuestions() []Question {
	qs := make([]Question, len(defaultBank))
	copy(qs, defaultBank)
	return qs
}

var defaultBank = []Question{
	{Text: "Who helped you see a problem more clearly today?", Channel: channels.Cognitive},
	{Text: "Who asked the question that made you rethink your approach?", Channel: channels.Cognitive},
	{Text: "Whose explanation stuck with you the longest?", Channel: channels.Cognitive},
	{Text: "Who would you ask to untangle a confusing concept?", Channel: channels.Cognitive},
	{Text: "Who challenged an assumption you were holding onto?", Channel: channels.Cognitive},

	{Text: "Who surprised you with an unexpected idea?", Channel: channels.Creative},
	{Text: "Who would you most want in a brainstorm?", Channel: channels.Creative},
	{Text: "Whose idea would you happily build on?", Channel: channels.Creative},
	{Text: "Who reframed a problem in a way you liked?", Channel: channels.Creative},
	{Text: "Who made something ordinary feel new?", Channel: channels.Creative},

	{Text: "Who would you ask for help when you are stuck debugging?", Channel: channels.Technical},
	{Text: "Who taught you a tool or trick recently?", Channel: channels.Technical},
	{Text: "Whose technical judgment do you trust the most?", Channel: channels.Technical},
	{Text: "Who would you pair with on a hard implementation?", Channel: channels.Technical},
	{Text: "Who explained how something actually works under the hood?", Channel: channels.Technical},

	{Text: "Who made the group feel more connected today?", Channel: channels.Social},
	{Text: "Who noticed when someone was being left out?", Channel: channels.Social},
	{Text: "Who would you go to if there was a conflict to resolve?", Channel: channels.Social},
	{Text: "Who kept the energy up when it dipped?", Channel: channels.Social},
	{Text: "Who listened best when you needed to be heard?", Channel: channels.Social},
}
