package types

import "github.com/shopspring/decimal"

type FrequencyType string

const (
	FrequencyTypeDays   FrequencyType = "days"
	FrequencyTypeMonths FrequencyType = "months"
)

// Plan is a recurring billing plan offered to buyers, loaded from configuration.
type Plan struct {
	ID            string          `json:"id" mapstructure:"id"`
	Name          string          `json:"name" mapstructure:"name"`
	Amount        decimal.Decimal `json:"amount" mapstructure:"amount"`
	Currency      string          `json:"currency" mapstructure:"currency"`
	Frequency     int             `json:"frequency" mapstructure:"frequency"`
	FrequencyType FrequencyType   `json:"frequency_type" mapstructure:"frequency_type"`
}

func (p *Plan) Valid() bool {
	return p != nil && p.ID != "" && p.Amount.IsPositive() && p.Currency != "" && p.Frequency > 0 &&
		(p.FrequencyType == FrequencyTypeDays || p.FrequencyType == FrequencyTypeMonths)
}
