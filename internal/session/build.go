package session

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sitescout/sitesim/internal/model"
	"github.com/sitescout/sitesim/internal/scoring"
)

// Build rejection reasons. Insufficient funds is an expected outcome, not a
// failure; it is also surfaced through the notification channel.
var (
	ErrNoSelection       = eris.New("session: no site selected")
	ErrInsufficientFunds = eris.New("session: insufficient funds")
)

// Build commits the chosen facility at the currently selected site. The six
// state effects are applied together under the session mutex or not at all:
// a rejection leaves everything but the notification untouched and keeps the
// selection.
func (s *Session) Build(facility model.FacilitySpec) (model.Installation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return model.Installation{}, ErrNoSelection
	}
	site := *s.selected
	if s.builtSiteIDs[site.ID] {
		return model.Installation{}, ErrSiteBuilt
	}

	total := facility.Cost + site.LandCost
	if s.budget < total {
		s.note = &model.Notification{
			Type:    model.NotificationError,
			Message: "Insufficient funds for this construction!",
		}
		return model.Installation{}, ErrInsufficientFunds
	}

	points := scoring.PointScore(facility, &site)
	impact := scoring.EnvironmentalImpact(facility, &site)

	install := model.Installation{
		ID:         s.nextInstallationID(),
		Site:       site,
		Facility:   facility,
		DayBuilt:   s.day,
		PointScore: points,
	}

	s.budget -= total
	s.envCost += impact
	s.score += points
	s.day += s.cfg.BuildDuration
	s.installations = append(s.installations, install)
	s.builtSiteIDs[site.ID] = true

	s.note = &model.Notification{
		Type:    model.NotificationSuccess,
		Message: fmt.Sprintf("Successfully built %s in %s!", facility.Name, site.Name),
	}
	s.selected = nil

	return install, nil
}
