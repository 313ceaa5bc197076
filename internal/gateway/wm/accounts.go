package wm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
)

// Accounts lists the accounts linked to the signed-in user.
func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}

	var resp accountsResponse
	err = c.do(ctx, request{
		method: http.MethodGet,
		url:    c.restURL("authorize/user/" + url.PathEscape(uid) + "/accounts"),
		apiKey: c.cfg.Keys.Accounts,
		query: url.Values{
			"timestamp": {strconv.FormatInt(c.now().UnixMilli(), 10)},
			"lang":      {lang},
		},
		rest: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: accounts: %w", err)
	}

	out := make([]domain.Account, 0, len(resp.Data.LinkedAccounts))
	for _, a := range resp.Data.LinkedAccounts {
		out = append(out, toAccount(a))
	}
	return out, nil
}

// Services lists the collection services of an account.
func (c *Client) Services(ctx context.Context, accountID string) ([]domain.Service, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}

	var resp servicesResponse
	err = c.do(ctx, request{
		method: http.MethodGet,
		url:    c.restURL("account/" + url.PathEscape(accountID) + "/services"),
		apiKey: c.cfg.Keys.Services,
		query: url.Values{
			"lang":                     {lang},
			"serviceChangeEligibility": {"Y"},
			"userId":                   {uid},
		},
		rest: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: services: %w", err)
	}

	out := make([]domain.Service, 0, len(resp.Services))
	for _, s := range resp.Services {
		out = append(out, toService(accountID, s))
	}
	return out, nil
}

// PickupDates returns the raw, unadjusted pickup dates of a service.
func (c *Client) PickupDates(ctx context.Context, accountID, serviceID string) ([]time.Time, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}

	var resp pickupInfoResponse
	err = c.do(ctx, request{
		method: http.MethodGet,
		url:    c.restURL("account/" + url.PathEscape(accountID) + "/service/" + url.PathEscape(serviceID) + "/pickupinfo"),
		apiKey: c.cfg.Keys.Services,
		query: url.Values{
			"lang":        {lang},
			"checkAlerts": {"Y"},
			"userId":      {uid},
		},
		rest: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: pickup info: %w", err)
	}

	dates, err := parsePickupDates(resp.PickupScheduleInfo.PickupDates)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: pickup info: %w", err)
	}
	return dates, nil
}

// Holidays returns the account's holiday schedule in response order.
func (c *Client) Holidays(ctx context.Context, accountID string, typ domain.HolidayType) ([]holiday.Holiday, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = domain.HolidaysUpcoming
	}

	var resp holidaysResponse
	err = c.do(ctx, request{
		method: http.MethodGet,
		url:    c.restURL("user/" + url.PathEscape(uid) + "/account/" + url.PathEscape(accountID) + "/holidays"),
		apiKey: c.cfg.Keys.Holidays,
		query: url.Values{
			"lang": {lang},
			"type": {string(typ)},
		},
		rest: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: holidays: %w", err)
	}

	hs, err := toHolidays(resp.HolidayData)
	if err != nil {
		return nil, fmt.Errorf("wm gateway: holidays: %w", err)
	}
	return hs, nil
}
