package subscription

type Entitlement string

const (
	EntitlementFree    Entitlement = "free"
	EntitlementPremium Entitlement = "premium"
)

const (
	ModeQuickGame  = "QUICK_GAME"
	ModeClassic    = "CLASSIC"
	ModeTournament = "TOURNAMENT"
	ModeTeamBattle = "TEAM_BATTLE"
	ModeCustomQuiz = "CUSTOM_QUIZ"
)

// ModeCatalog is the immutable free/premium classification of game
// modes. Modes absent from both sets classify as premium, so a new or
// misspelled mode never plays for free.
type ModeCatalog struct {
	free    map[string]struct{}
	premium map[string]struct{}
}

func NewModeCatalog(free, premium []string) ModeCatalog {
	c := ModeCatalog{
		free:    make(map[string]struct{}, len(free)),
		premium: make(map[string]struct{}, len(premium)),
	}
	for _, m := range free {
		c.free[m] = struct{}{}
	}
	for _, m := range premium {
		c.premium[m] = struct{}{}
	}
	return c
}

func DefaultModeCatalog() ModeCatalog {
	return NewModeCatalog(
		[]string{ModeQuickGame, ModeClassic},
		[]string{ModeTournament, ModeTeamBattle, ModeCustomQuiz},
	)
}

func (c ModeCatalog) Classify(mode string) Entitlement {
	if _, ok := c.free[mode]; ok {
		return EntitlementFree
	}
	return EntitlementPremium
}

// FreeModes returns the free set, for listing endpoints.
func (c ModeCatalog) FreeModes() []string {
	modes := make([]string, 0, len(c.free))
	for m := range c.free {
		modes = append(modes, m)
	}
	return modes
}

// PremiumModes returns the known premium set.
func (c ModeCatalog) PremiumModes() []string {
	modes := make([]string, 0, len(c.premium))
	for m := range c.premium {
		modes = append(modes, m)
	}
	return modes
}
