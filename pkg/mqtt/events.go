package mqtt

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// SanctionEvent is the payload published for every applied or reversed sanction
type SanctionEvent struct {
	Event       string     `json:"event"`
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	GuildID     string     `json:"guildId"`
	TargetID    string     `json:"targetId"`
	ModeratorID string     `json:"moderatorId"`
	Reason      string     `json:"reason"`
	AppliedAt   time.Time  `json:"appliedAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ReversedBy  string     `json:"reversedBy,omitempty"`
	Automatic   bool       `json:"automatic,omitempty"`
}

// Publisher sends a payload to a topic
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// SanctionPublisher mirrors sanction lifecycle events to the broker
type SanctionPublisher struct {
	pub   Publisher
	async bool
}

// NewSanctionPublisher creates a publisher that sends events in the background
func NewSanctionPublisher(pub Publisher) *SanctionPublisher {
	return &SanctionPublisher{pub: pub, async: true}
}

func newEvent(event string, s *models.Sanction) SanctionEvent {
	return SanctionEvent{
		Event:       event,
		ID:          s.ID,
		Kind:        string(s.Kind),
		GuildID:     s.GuildID,
		TargetID:    s.TargetID,
		ModeratorID: s.ModeratorID,
		Reason:      s.Reason,
		AppliedAt:   s.AppliedAt,
		ExpiresAt:   s.ExpiresAt,
		ReversedBy:  s.ReversedBy,
	}
}

// sanctionTopic is sanctions/<guild>/<event>
func sanctionTopic(guildID, event string) string {
	return fmt.Sprintf("sanctions/%s/%s", guildID, event)
}

func (p *SanctionPublisher) send(topic string, ev SanctionEvent) {
	publish := func() {
		if err := p.pub.Publish(topic, ev); err != nil {
			logger.Debug(fmt.Sprintf("Evento %s no publicado: %v", ev.Event, err), "MQTT")
		}
	}
	if p.async {
		errors.Go(publish)
		return
	}
	publish()
}

func (p *SanctionPublisher) SanctionApplied(s *models.Sanction) {
	p.send(sanctionTopic(s.GuildID, "applied"), newEvent("applied", s))
}

func (p *SanctionPublisher) SanctionReversed(s *models.Sanction, automatic bool) {
	ev := newEvent("reversed", s)
	ev.Automatic = automatic
	p.send(sanctionTopic(s.GuildID, "reversed"), ev)
}
