package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModeCatalogSetsAreDisjoint(t *testing.T) {
	catalog := DefaultModeCatalog()

	for _, m := range catalog.FreeModes() {
		assert.NotContains(t, catalog.PremiumModes(), m)
	}
}

func TestClassifyFreeModes(t *testing.T) {
	catalog := DefaultModeCatalog()

	assert.Equal(t, EntitlementFree, catalog.Classify(ModeQuickGame))
	assert.Equal(t, EntitlementFree, catalog.Classify(ModeClassic))
}

func TestClassifyPremiumModes(t *testing.T) {
	catalog := DefaultModeCatalog()

	assert.Equal(t, EntitlementPremium, catalog.Classify(ModeTournament))
	assert.Equal(t, EntitlementPremium, catalog.Classify(ModeTeamBattle))
	assert.Equal(t, EntitlementPremium, catalog.Classify(ModeCustomQuiz))
}

func TestClassifyUnknownModeIsPremium(t *testing.T) {
	catalog := DefaultModeCatalog()

	// Fail-safe: anything unrecognized requires a subscription.
	assert.Equal(t, EntitlementPremium, catalog.Classify("SPEED_ROUND"))
	assert.Equal(t, EntitlementPremium, catalog.Classify(""))
	assert.Equal(t, EntitlementPremium, catalog.Classify("quick_game"))
}

func TestClassifyIsDeterministic(t *testing.T) {
	catalog := DefaultModeCatalog()

	for i := 0; i < 10; i++ {
		assert.Equal(t, EntitlementFree, catalog.Classify(ModeQuickGame))
		assert.Equal(t, EntitlementPremium, catalog.Classify("NO_SUCH_MODE"))
	}
}

func TestCustomCatalog(t *testing.T) {
	catalog := NewModeCatalog([]string{"DAILY"}, []string{"MARATHON"})

	assert.Equal(t, EntitlementFree, catalog.Classify("DAILY"))
	assert.Equal(t, EntitlementPremium, catalog.Classify("MARATHON"))
	assert.Equal(t, EntitlementPremium, catalog.Classify(ModeQuickGame))
}
