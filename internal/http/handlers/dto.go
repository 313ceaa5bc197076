package handlers

type addressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type accountDTO struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Address addressDTO `json:"address"`
}

type serviceDTO struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

type impactDTO struct {
	Original string `json:"original"`
	Adjusted string `json:"adjusted"`
}

type delayDTO struct {
	Original  string `json:"original"`
	Adjusted  string `json:"adjusted"`
	DelayDays int    `json:"delay_days"`
}

type scheduleDTO struct {
	AccountID string     `json:"account_id"`
	ServiceID string     `json:"service_id"`
	Pickups   []string   `json:"pickups"`
	Scheduled []string   `json:"scheduled"`
	Delays    []delayDTO `json:"delays"`
}
