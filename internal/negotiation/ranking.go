package negotiation

import (
	"errors"
	"sort"

	"github.com/cartai/negotiation-platform/internal/model"
)

// ErrNoOffers signals ranking over an empty offer set, an invariant
// violation: the engine always seeds at least one offer before ranking.
var ErrNoOffers = errors.New("negotiation: no offers to evaluate")

// LatestOffers reduces the full offer history to the most recent offer
// per roster seller, in roster order.
func LatestOffers(all []model.Offer, roster []model.SellerProfile) []model.Offer {
	latest := make([]model.Offer, 0, len(roster))
	for _, profile := range roster {
		var found *model.Offer
		for i := range all {
			if all[i].SellerID == profile.ID {
				found = &all[i]
			}
		}
		if found != nil {
			latest = append(latest, *found)
		}
	}
	return latest
}

// BestOffer picks the offer minimizing the priority metric. Ties break by
// insertion order (first encountered wins).
func BestOffer(offers []model.Offer, priority model.Priority) (model.Offer, error) {
	if len(offers) == 0 {
		return model.Offer{}, ErrNoOffers
	}

	best := offers[0]
	for _, o := range offers[1:] {
		if metricLess(o, best, priority) {
			best = o
		}
	}
	return best, nil
}

// Alternatives returns the runner-up offers, ascending by the priority
// metric, at most two, winner excluded. Ties keep insertion order.
func Alternatives(offers []model.Offer, winner model.Offer, priority model.Priority) []model.Offer {
	rest := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		if o.ID != winner.ID {
			rest = append(rest, o)
		}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return metricLess(rest[i], rest[j], priority)
	})

	if len(rest) > 2 {
		rest = rest[:2]
	}
	return rest
}

func metricLess(a, b model.Offer, priority model.Priority) bool {
	switch priority {
	case model.PrioritySpeed:
		return a.DeliveryDays < b.DeliveryDays
	case model.PriorityCarbon:
		return a.CarbonFootprint < b.CarbonFootprint
	default:
		return a.Price < b.Price
	}
}
