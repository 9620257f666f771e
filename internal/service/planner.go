package service

import (
    "context"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/repository"
)

// PlanRides pairs riders with drivers greedily.  drivers and riders must be
// in join order.  Each driver, in turn, takes as many riders from the front
// of the queue as it has seats left after its accepted matches.  Planning
// stops once the rider queue is empty.  The result is advisory and ignores
// PROPOSED matches.
func PlanRides(drivers, riders []model.Participant, acceptedByDriver map[string]int) []model.RideSuggestion {
    out := []model.RideSuggestion{}
    next := 0
    for _, d := range drivers {
        if next >= len(riders) {
            break
        }
        for free := d.SeatsOffered - acceptedByDriver[d.ID]; free > 0 && next < len(riders); free-- {
            out = append(out, model.RideSuggestion{
                DriverParticipantID: d.ID,
                RiderParticipantID:  riders[next].ID,
            })
            next++
        }
    }
    return out
}

// Suggestions runs PlanRides over a snapshot of the event's approved
// drivers and riders.
func (s *Service) Suggestions(ctx context.Context, eventID string) ([]model.RideSuggestion, error) {
    var out []model.RideSuggestion
    err := s.store.ReadTx(ctx, func(tx repository.Tx) error {
        if _, err := tx.GetEvent(ctx, eventID); err != nil {
            return lookup(err, "event")
        }
        ps, err := tx.ListParticipants(ctx, eventID)
        if err != nil {
            return err
        }
        ms, err := tx.ListMatches(ctx, eventID)
        if err != nil {
            return err
        }
        var drivers, riders []model.Participant
        for _, p := range ps {
            if p.Status != model.ParticipantApproved {
                continue
            }
            switch p.RideMode {
            case model.RideOffer:
                drivers = append(drivers, p)
            case model.RideNeed:
                riders = append(riders, p)
            }
        }
        accepted := map[string]int{}
        for _, m := range ms {
            if m.Status == model.MatchAccepted {
                accepted[m.DriverParticipantID]++
            }
        }
        out = PlanRides(drivers, riders, accepted)
        return nil
    })
    return out, err
}
