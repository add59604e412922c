package rho

import (
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

func TestBalance_SubstitutesAddress(t *testing.T) {
	term := Balance("rev1abc")
	assert.Contains(t, term, `"findOrCreate", "rev1abc"`)
	assert.NotContains(t, term, "%ADDR%")
}

func TestTransfer_SubstitutesAllPlaceholders(t *testing.T) {
	term := Transfer("rev1from", "rev1to", math.NewInt(1_000_000))

	assert.Contains(t, term, `"findOrCreate", "rev1from"`)
	assert.Contains(t, term, `"transfer", "rev1to", 1000000,`)
	assert.NotContains(t, term, "%FROM%")
	assert.NotContains(t, term, "%TO%")
	assert.NotContains(t, term, "%AMOUNT%")

	// Both destination placeholders are replaced: the vault creation for
	// the receiving side and the transfer call itself.
	assert.Equal(t, 2, strings.Count(term, "rev1to"))
}
