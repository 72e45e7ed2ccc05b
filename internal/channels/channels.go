package channels

import "fmt"

// Channel identifies one of the four influence dimensions participants
// nominate each other on. The set is fixed for the lifetime of the process.
type Channel string

const (
	Cognitive Channel = "cognitive"
	Creative  Channel = "creative"
	Technical Channel = "technical"
	Social    Channel = "social"
)

// RGB is a display color in 0-255 components.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex renders the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Definition describes a channel for display purposes.
type Definition struct {
	ID    Channel `json:"id"`
	Label string  `json:"label"`
	Color RGB     `json:"color"`
}

// Neutral is the color used for nodes with no incoming weight.
var Neutral = RGB{R: 128, G: 128, B: 128}

var registry = []Definition{
	{ID: Cognitive, Label: "Cognitive", Color: RGB{R: 59, G: 130, B: 246}},
	{ID: Creative, Label: "Creative", Color: RGB{R: 168, G: 85, B: 247}},
	{ID: Technical, Label: "Technical", Color: RGB{R: 34, G: 197, B: 94}},
	{ID: Social, Label: "Social", Color: RGB{R: 249, G: 115, B: 22}},
}

// All returns the channel definitions in their fixed declaration order.
// Callers must not mutate the returned slice.
func All() []Definition {
	return registry
}

// Valid reports whether c is one of the four registered channels.
func Valid(c Channel) bool {
	for _, d := range registry {
		if d.ID == c {
			return true
		}
	}
	return false
}

// ColorOf returns the display color for a channel, or Neutral for an
// unknown one.
func ColorOf(c Channel) RGB {
	for _, d := range registry {
		if d.ID == c {
			return d.Color
		}
	}
	return Neutral
}

// LabelOf returns the display label for a channel.
func LabelOf(c Channel) string {
	for _, d := range registry {
		if d.ID == c {
			return d.Label
		}
	}
	return string(c)
}
