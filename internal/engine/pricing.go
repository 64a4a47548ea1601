package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"hotelline/internal/config"
	"hotelline/internal/domain"
)

type Quote struct {
	RoomType    string          `json:"roomType"`
	CheckIn     string          `json:"checkIn" format:"date"`
	CheckOut    string          `json:"checkOut" format:"date"`
	Nights      int             `json:"nights"`
	Rate        decimal.Decimal `json:"rate"`
	KnownType   bool            `json:"knownType"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// parseDay accepts calendar dates only; stay windows carry no time of day.
func parseDay(field, v string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in "+domain.DateLayout+" format")
	}
	return t, nil
}

// Nights is the ceiling of the day difference between checkOut and checkIn,
// never less than 1.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := parseDay("checkIn", checkIn)
	if err != nil {
		return 0, err
	}
	out, err := parseDay("checkOut", checkOut)
	if err != nil {
		return 0, err
	}
	days := int(math.Ceil(out.Sub(in).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// PriceStay returns rate(roomType) x nights. Unknown room types have rate 0.
func PriceStay(cfg *config.Config, roomType, checkIn, checkOut string) (Quote, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	rate, known := cfg.Rate(roomType)
	return Quote{
		RoomType:    roomType,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		Rate:        rate,
		KnownType:   known,
		TotalAmount: rate.Mul(decimal.NewFromInt(int64(nights))),
	}, nil
}

// Quote prices a stay with the engine's rate table.
func (e *Engine) Quote(roomType, checkIn, checkOut string) (Quote, error) {
	return PriceStay(e.Config, roomType, checkIn, checkOut)
}
