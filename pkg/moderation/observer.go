package moderation

import "github.com/PancyStudios/PancyModGo/pkg/models"

// Observer is notified after sanctions are recorded or reversed
type Observer interface {
	SanctionApplied(s *models.Sanction)
	SanctionReversed(s *models.Sanction, automatic bool)
}

// Observers fans notifications out to several observers
type Observers []Observer

func (o Observers) SanctionApplied(s *models.Sanction) {
	for _, obs := range o {
		obs.SanctionApplied(s)
	}
}

func (o Observers) SanctionReversed(s *models.Sanction, automatic bool) {
	for _, obs := range o {
		obs.SanctionReversed(s, automatic)
	}
}

type nopObserver struct{}

func (nopObserver) SanctionApplied(*models.Sanction)        {}
func (nopObserver) SanctionReversed(*models.Sanction, bool) {}
