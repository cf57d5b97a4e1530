package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKey_Normalize(t *testing.T) {
	key := ItemKey{ProductID: " P1\t", Size: ` 30" `}

	assert.Equal(t, ItemKey{ProductID: "P1", Size: `30"`}, key.Normalize())
	assert.True(t, key.Normalize().Matches(ItemKey{ProductID: "P1", Size: `30"`}))
}
