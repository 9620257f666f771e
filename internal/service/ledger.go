package service

import (
    "context"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/repository"
)

// approvedCount is the number of APPROVED participants as seen by tx.  Call
// it after the event row is locked.
func approvedCount(ctx context.Context, tx repository.Tx, eventID string) (int, error) {
    return tx.CountParticipantsByStatus(ctx, eventID, model.ParticipantApproved)
}

// Tally derives the event statistics from its participant and match rows.
//
// Ride counts and offered seats only consider APPROVED participants.
// SeatsAcceptedTotal counts ACCEPTED matches.  UnmatchedRidersCount is the
// number of APPROVED NEED participants that are not the rider of any
// ACCEPTED match.
func Tally(eventID string, participants []model.Participant, matches []model.RideMatch) model.EventStats {
    st := model.EventStats{EventID: eventID}
    riders := map[string]bool{}
    for _, p := range participants {
        switch p.Status {
        case model.ParticipantApproved:
            st.ApprovedCount++
        case model.ParticipantPending:
            st.PendingCount++
        case model.ParticipantRejected:
            st.RejectedCount++
        case model.ParticipantCanceled:
            st.CanceledCount++
        }
        if p.Status != model.ParticipantApproved {
            continue
        }
        switch p.RideMode {
        case model.RideNeed:
            st.NeedRideCount++
            riders[p.ID] = true
        case model.RideOffer:
            st.OfferRideCount++
            st.SeatsOfferedTotal += p.SeatsOffered
        }
    }

    served := map[string]bool{}
    for _, m := range matches {
        if m.Status != model.MatchAccepted {
            continue
        }
        st.SeatsAcceptedTotal++
        if riders[m.RiderParticipantID] {
            served[m.RiderParticipantID] = true
        }
    }

    st.SeatsRemainingTotal = max(0, st.SeatsOfferedTotal-st.SeatsAcceptedTotal)
    st.UnmatchedRidersCount = len(riders) - len(served)
    return st
}

// Stats returns the live statistics of an event.
func (s *Service) Stats(ctx context.Context, eventID string) (model.EventStats, error) {
    var st model.EventStats
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
        st = Tally(eventID, ps, ms)
        return nil
    })
    return st, err
}
