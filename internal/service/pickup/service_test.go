package pickup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/service/pickup"
	testlog "wm-pickup/internal/testutil"
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock() time.Time { return day(2024, time.June, 1) }

func TestService_Pickups_AppliesHolidayDelays(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	gw := NewMockGateway(ctrl)
	ctr := NewMockCounter(ctrl)
	rec := testlog.New()

	raw := []time.Time{day(2024, time.July, 1), day(2024, time.July, 4), day(2024, time.July, 8)}
	gomock.InOrder(
		gw.EXPECT().EnsureSession(gomock.Any()).Return(nil),
		gw.EXPECT().PickupDates(gomock.Any(), "A1", "S1").Return(raw, nil),
		gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysAll).Return([]holiday.Holiday{
			{Date: day(2024, time.July, 4), Message: "July 4 through July 6 will be delayed by one day"},
		}, nil),
	)
	ctr.EXPECT().Add(float64(1))

	svc := pickup.NewService(gw, rec.Logger(), ctr, time.Second).WithClock(fixedClock)
	got, err := svc.Pickups(context.Background(), " A1 ", "S1")
	require.NoError(t, err)

	require.Equal(t, "A1", got.AccountID)
	require.Equal(t, "S1", got.ServiceID)
	require.Equal(t, raw, got.Raw)
	require.Equal(t, []time.Time{day(2024, time.July, 1), day(2024, time.July, 5), day(2024, time.July, 8)}, got.Dates)
	require.Equal(t, []domain.PickupDelay{{Original: day(2024, time.July, 4), Adjusted: day(2024, time.July, 5)}}, got.Delays)
	require.Len(t, rec.ByMsg("pickups adjusted for holidays"), 1)
}

func TestService_Pickups_NoDelaysNoCounter(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	gw := NewMockGateway(ctrl)
	raw := []time.Time{day(2024, time.July, 1)}

	gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
	gw.EXPECT().PickupDates(gomock.Any(), "A1", "S1").Return(raw, nil)
	gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysAll).Return(nil, nil)

	svc := pickup.NewService(gw, nil, NewMockCounter(ctrl), 0)
	got, err := svc.Pickups(context.Background(), "A1", "S1")
	require.NoError(t, err)
	require.Equal(t, raw, got.Dates)
	require.Empty(t, got.Delays)
}

func TestService_Pickups_InvalidIDs(t *testing.T) {
	t.Parallel()

	svc := pickup.NewService(NewMockGateway(newCtrl(t)), nil, nil, 0)

	_, err := svc.Pickups(context.Background(), "", "S1")
	require.ErrorIs(t, err, apperr.Invalid)
	_, err = svc.Pickups(context.Background(), "A1", "  ")
	require.ErrorIs(t, err, apperr.Invalid)
}

func TestService_Pickups_GatewayErrorsPropagate(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	t.Run("session", func(t *testing.T) {
		gw := NewMockGateway(newCtrl(t))
		gw.EXPECT().EnsureSession(gomock.Any()).Return(apperr.Unauthorized)

		_, err := pickup.NewService(gw, nil, nil, 0).Pickups(context.Background(), "A1", "S1")
		require.ErrorIs(t, err, apperr.Unauthorized)
	})
	t.Run("pickup dates", func(t *testing.T) {
		gw := NewMockGateway(newCtrl(t))
		gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
		gw.EXPECT().PickupDates(gomock.Any(), "A1", "S1").Return(nil, boom)

		_, err := pickup.NewService(gw, nil, nil, 0).Pickups(context.Background(), "A1", "S1")
		require.ErrorIs(t, err, boom)
	})
	t.Run("holidays", func(t *testing.T) {
		gw := NewMockGateway(newCtrl(t))
		gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
		gw.EXPECT().PickupDates(gomock.Any(), "A1", "S1").Return([]time.Time{day(2024, time.July, 1)}, nil)
		gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysAll).Return(nil, boom)

		_, err := pickup.NewService(gw, nil, nil, 0).Pickups(context.Background(), "A1", "S1")
		require.ErrorIs(t, err, boom)
	})
}

func TestService_Holidays_MergesInResponseOrder(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway(newCtrl(t))
	gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
	gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysUpcoming).Return([]holiday.Holiday{
		{Date: day(2024, time.December, 24), Message: "December 24 through December 26 delayed one day"},
		{Date: day(2024, time.December, 25), Message: "December 25 through December 26 delayed two days"},
	}, nil)

	svc := pickup.NewService(gw, nil, nil, 0).WithClock(fixedClock)
	got, err := svc.Holidays(context.Background(), "A1", "")
	require.NoError(t, err)
	require.Equal(t, holiday.ImpactMap{
		day(2024, time.December, 24): day(2024, time.December, 25),
		day(2024, time.December, 25): day(2024, time.December, 27),
	}, got)
}

func TestService_Holidays_StaleUsesInjectedClock(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway(newCtrl(t))
	gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
	gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysAll).Return([]holiday.Holiday{
		{Date: day(2020, time.July, 4), Message: "July 4 through July 6"},
	}, nil)

	svc := pickup.NewService(gw, nil, nil, 0).WithClock(fixedClock)
	got, err := svc.Holidays(context.Background(), "A1", domain.HolidaysAll)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestService_Holidays_InvalidType(t *testing.T) {
	t.Parallel()

	svc := pickup.NewService(NewMockGateway(newCtrl(t)), nil, nil, 0)
	_, err := svc.Holidays(context.Background(), "A1", "past")
	require.ErrorIs(t, err, apperr.Invalid)
}

func TestService_AccountsAndServices(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway(newCtrl(t))
	gw.EXPECT().EnsureSession(gomock.Any()).Return(nil).Times(2)
	gw.EXPECT().Accounts(gomock.Any()).Return([]domain.Account{{ID: "A1"}}, nil)
	gw.EXPECT().Services(gomock.Any(), "A1").Return([]domain.Service{{ID: "S1", AccountID: "A1"}}, nil)

	svc := pickup.NewService(gw, nil, nil, 0)
	accounts, err := svc.Accounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Account{{ID: "A1"}}, accounts)

	services, err := svc.Services(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, []domain.Service{{ID: "S1", AccountID: "A1"}}, services)

	_, err = svc.Services(context.Background(), "")
	require.ErrorIs(t, err, apperr.Invalid)
}

func TestService_AppliesOperationTimeout(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway(newCtrl(t))
	gw.EXPECT().EnsureSession(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		require.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
		return nil
	})
	gw.EXPECT().Accounts(gomock.Any()).Return(nil, nil)

	_, err := pickup.NewService(gw, nil, nil, 2*time.Second).Accounts(context.Background())
	require.NoError(t, err)
}

func TestService_Pickups_ScheduleHolidaysSelector(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway(newCtrl(t))
	gw.EXPECT().EnsureSession(gomock.Any()).Return(nil)
	gw.EXPECT().PickupDates(gomock.Any(), "A1", "S1").Return(nil, nil)
	gw.EXPECT().Holidays(gomock.Any(), "A1", domain.HolidaysUpcoming).Return(nil, nil)

	svc := pickup.NewService(gw, nil, nil, 0).
		WithScheduleHolidays(domain.HolidaysUpcoming).
		WithScheduleHolidays("bogus")
	_, err := svc.Pickups(context.Background(), "A1", "S1")
	require.NoError(t, err)
}
