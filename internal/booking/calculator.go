// Package booking prices a stay before it is submitted.
package booking

import (
	"math"

	"hotelres/internal/models"
	"hotelres/internal/utils"
)

const (
	MsgSelectDates  = "Please select check-in and check-out dates."
	MsgGuestNumbers = "Please enter valid numbers for adults and children."
	MsgPrice        = "Room price is not available."
)

// Input is everything the calculator needs for one quote.
type Input struct {
	CheckIn       models.Date
	CheckOut      models.Date
	PricePerNight float64
	Adults        int
	Children      int
}

// Quote is the derived price and guest count.
type Quote struct {
	TotalNights int
	TotalPrice  float64
	TotalGuests int
}

// Calculate prices in. Both endpoints count as nights, so a same-day stay is
// one night. This inclusive count is what the booking screen has always
// charged; keep it until the backend agrees on a different rule.
func Calculate(in Input) (Quote, error) {
	if err := in.Validate(); err != nil {
		return Quote{}, err
	}
	nights := int(math.Round(math.Abs(in.CheckIn.Days(in.CheckOut)))) + 1
	return Quote{
		TotalNights: nights,
		TotalPrice:  float64(nights) * in.PricePerNight,
		TotalGuests: in.Adults + in.Children,
	}, nil
}

func (in Input) Validate() error {
	if in.CheckIn.IsZero() {
		return utils.Invalid("checkInDate", MsgSelectDates)
	}
	if in.CheckOut.IsZero() {
		return utils.Invalid("checkOutDate", MsgSelectDates)
	}
	if in.Adults < 1 {
		return utils.Invalid("numberOfAdults", MsgGuestNumbers)
	}
	if in.Children < 0 {
		return utils.Invalid("numberOfChildren", MsgGuestNumbers)
	}
	if !(in.PricePerNight > 0) || math.IsInf(in.PricePerNight, 0) {
		return utils.Invalid("price", MsgPrice)
	}
	return nil
}

// Request is the submission body for in.
func (in Input) Request() models.BookingRequest {
	return models.BookingRequest{
		CheckInDate:      in.CheckIn,
		CheckOutDate:     in.CheckOut,
		NumberOfAdults:   in.Adults,
		NumberOfChildren: in.Children,
	}
}
