package utils_test

import (
	// Go Internal Packages
	"strings"
	"testing"

	// Local Packages
	utils "mpesa-b2c/utils"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOriginatorConversationID(t *testing.T) {
	id := utils.NewOriginatorConversationID()

	require.Len(t, id, 36)

	groups := strings.Split(id, "-")
	require.Len(t, groups, 5)
	assert.Len(t, groups[0], 8)
	assert.Len(t, groups[1], 4)
	assert.Len(t, groups[2], 4)
	assert.Len(t, groups[3], 4)
	assert.Len(t, groups[4], 12)

	// Version nibble fixed to 4, variant nibble in {8, 9, a, b}.
	assert.Equal(t, byte('4'), groups[2][0])
	assert.Contains(t, "89ab", string(groups[3][0]))
}

func TestNewOriginatorConversationIDUnique(t *testing.T) {
	first := utils.NewOriginatorConversationID()
	second := utils.NewOriginatorConversationID()
	assert.NotEqual(t, first, second)
}
