package price

import (
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/domain"
)

const DefaultCurrency = "EUR"

// Price is a rental tariff. Bookings keep the ID of the price current at creation.
type Price struct {
	id          int64
	amountCents int64
	currency    string
	deleted     bool
	createdAt   time.Time
}

func NewPrice(amountCents int64, currency string) (*Price, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("price amount must be positive")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, domain.NewValidationError("currency must be a 3-letter code")
	}
	return &Price{
		amountCents: amountCents,
		currency:    currency,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructPrice(id, amountCents int64, currency string, deleted bool, createdAt time.Time) *Price {
	return &Price{
		id:          id,
		amountCents: amountCents,
		currency:    currency,
		deleted:     deleted,
		createdAt:   createdAt,
	}
}

func (p *Price) ID() int64            { return p.id }
func (p *Price) AmountCents() int64   { return p.amountCents }
func (p *Price) Currency() string     { return p.currency }
func (p *Price) IsDeleted() bool      { return p.deleted }
func (p *Price) CreatedAt() time.Time { return p.createdAt }

func (p *Price) AssignID(id int64) { p.id = id }
