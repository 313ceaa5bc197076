package kafka

import (
	"time"

	"wm-pickup/internal/domain"
)

const dateLayout = time.DateOnly

// DelayNoticeDTO is the wire form of one holiday-delayed pickup.
type DelayNoticeDTO struct {
	AccountID    string `json:"account_id"`
	ServiceID    string `json:"service_id"`
	OriginalDate string `json:"original_date"`
	AdjustedDate string `json:"adjusted_date"`
	DelayDays    int    `json:"delay_days"`
}

// FromDomain converts a pickup delay of one service into its wire form.
func FromDomain(accountID, serviceID string, d domain.PickupDelay) DelayNoticeDTO {
	return DelayNoticeDTO{
		AccountID:    accountID,
		ServiceID:    serviceID,
		OriginalDate: d.Original.Format(dateLayout),
		AdjustedDate: d.Adjusted.Format(dateLayout),
		DelayDays:    d.Days(),
	}
}

func messageKey(accountID, serviceID string) string {
	return accountID + "/" + serviceID
}
