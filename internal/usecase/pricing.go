package usecase

import (
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/utils"
)

// DefaultPricePerPerson applies when a venue has no overage rate of its own.
const DefaultPricePerPerson = 85.0

const (
	ExtraSecurity = "security"
	ExtraCleaning = "cleaning"
)

// Extra is one flat-fee add-on. Only Price and Selected affect the total.
type Extra struct {
	Key      string
	Name     string
	Price    float64
	Selected bool
}

// ComputeTotal returns base + guests over minimum * rate + selected extras.
// It trusts its input: no clamping and no rounding.
func ComputeTotal(basePrice float64, guestCount, minCapacity int, pricePerPerson float64, extras []Extra) float64 {
	total := basePrice
	if guestCount > minCapacity {
		total += float64(guestCount-minCapacity) * pricePerPerson
	}
	for _, e := range extras {
		if e.Selected {
			total += e.Price
		}
	}
	return total
}

// ExtrasCatalog is the ordered list of add-ons offered on every venue.
type ExtrasCatalog []Extra

func NewExtrasCatalog(cfg utils.PricingConfig) ExtrasCatalog {
	return ExtrasCatalog{
		{Key: ExtraSecurity, Name: "Security staff", Price: cfg.SecurityPrice},
		{Key: ExtraCleaning, Name: "Post-event cleaning", Price: cfg.CleaningPrice},
	}
}

// Select returns a copy of the catalog with the given keys selected.
// Unknown keys are a validation error.
func (c ExtrasCatalog) Select(keys []string) ([]Extra, error) {
	out := make([]Extra, len(c))
	copy(out, c)

	for _, key := range keys {
		found := false
		for i := range out {
			if out[i].Key == key {
				out[i].Selected = true
				found = true
				break
			}
		}
		if !found {
			return nil, validationError("unknown extra: " + key)
		}
	}
	return out, nil
}

func selected(extras []Extra, key string) bool {
	for _, e := range extras {
		if e.Key == key && e.Selected {
			return true
		}
	}
	return false
}

// EffectivePricePerPerson is the venue's own rate or the fallback.
func EffectivePricePerPerson(venue *entity.Venue, fallback float64) float64 {
	if venue.PricePerPerson != nil {
		return *venue.PricePerPerson
	}
	return fallback
}

// Quote is the itemised form of ComputeTotal.
type Quote struct {
	BasePrice      float64
	PricePerPerson float64
	GuestCount     int
	ExtraGuests    int
	GuestsAmount   float64
	Extras         []Extra
	ExtrasAmount   float64
	Total          float64
}

func BuildQuote(venue *entity.Venue, guestCount int, extras []Extra, fallbackRate float64) Quote {
	rate := EffectivePricePerPerson(venue, fallbackRate)

	q := Quote{
		BasePrice:      venue.BasePrice,
		PricePerPerson: rate,
		GuestCount:     guestCount,
		Extras:         extras,
		Total:          ComputeTotal(venue.BasePrice, guestCount, venue.MinCapacity, rate, extras),
	}
	if guestCount > venue.MinCapacity {
		q.ExtraGuests = guestCount - venue.MinCapacity
		q.GuestsAmount = float64(q.ExtraGuests) * rate
	}
	for _, e := range extras {
		if e.Selected {
			q.ExtrasAmount += e.Price
		}
	}
	return q
}
