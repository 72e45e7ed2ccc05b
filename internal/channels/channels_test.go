package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryIsFixed(t *testing.T) {
	all := All()
	assert.Len(t, all, 4)
	assert.Equal(t, Cognitive, all[0].ID)
	assert.Equal(t, Creative, all[1].ID)
	assert.Equal(t, Technical, all[2].ID)
	assert.Equal(t, Social, all[3].ID)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Technical))
	assert.False(t, Valid(Channel("spiritual")))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#000000", RGB{}.Hex())
	assert.Equal(t, "#FF0A00", RGB{R: 255, G: 10}.Hex())
	assert.Equal(t, "#808080", Neutral.Hex())
}

func TestColorOfUnknownFallsBackToNeutral(t *testing.T) {
	assert.Equal(t, Neutral, ColorOf(Channel("nope")))
}
