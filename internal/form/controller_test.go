package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/loan"
	"github.com/yanizio/loanform/internal/metrics"
	"github.com/yanizio/loanform/internal/notify"
	"github.com/yanizio/loanform/internal/summary"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Summarize(ctx context.Context, req loan.Request) (loan.Schedule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(loan.Schedule), args.Error(1)
}

func newTestController(c summary.Client) (*Controller, *summary.State, *notify.Recorder) {
	state := &summary.State{}
	rec := &notify.Recorder{}
	return NewController(c, state.Setter(), rec, zap.NewNop().Sugar()), state, rec
}

func scenarioRequest() loan.Request {
	return loan.Request{
		InitialDate:      loan.MustDate("2024-01-01"),
		FinalDate:        loan.MustDate("2024-12-31"),
		FirstPaymentDate: loan.MustDate("2024-02-01"),
		LoanAmount:       loan.Decimal("10000.00"),
		InterestRate:     loan.Decimal("1.5"),
	}
}

func TestSubmit_ValidCommitsSchedule(t *testing.T) {
	client := &mockClient{}
	entry := loan.Schedule{loan.ScheduleEntry(`{"installment":1}`)}
	req := scenarioRequest()
	client.On("Summarize", mock.Anything, req).Return(entry, nil).Once()

	ctl, state, rec := newTestController(client)
	res := ctl.Submit(context.Background(), req)

	assert.True(t, res.Outcome.Valid)
	assert.True(t, res.Called)
	assert.True(t, res.Committed)
	assert.Empty(t, rec.Messages())
	require.Len(t, state.Get(), 1)
	assert.JSONEq(t, `{"installment":1}`, string(state.Get()[0]))
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "Summarize", 1)
}

func TestSubmit_InvalidClearsAndSkipsService(t *testing.T) {
	client := &mockClient{}
	ctl, state, rec := newTestController(client)
	state.Replace(loan.Schedule{loan.ScheduleEntry(`{"old":true}`)})

	req := scenarioRequest()
	req.InitialDate = loan.MustDate("2024-06-01")
	req.FinalDate = loan.MustDate("2024-01-01")

	res := ctl.Submit(context.Background(), req)

	assert.False(t, res.Outcome.Valid)
	assert.False(t, res.Called)
	assert.Contains(t, rec.Messages(), loan.MsgFinalDate)
	assert.Empty(t, state.Get())
	client.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}

func TestSubmit_EachMessageNotifiedOnce(t *testing.T) {
	ctl, _, rec := newTestController(&mockClient{})

	req := loan.Request{
		InitialDate:      loan.MustDate("2024-06-01"),
		FinalDate:        loan.MustDate("2024-01-01"),
		FirstPaymentDate: loan.MustDate("2024-03-01"),
	}
	ctl.Submit(context.Background(), req)

	assert.Equal(t, []string{loan.MsgRequired, loan.MsgFinalDate, loan.MsgFirstPayment}, rec.Messages())
}

func TestSubmit_ServiceFailureLeavesStateUntouched(t *testing.T) {
	client := &mockClient{}
	client.On("Summarize", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	ctl, state, rec := newTestController(client)
	prior := loan.Schedule{loan.ScheduleEntry(`{"prior":1}`)}
	state.Replace(prior)
	before := state.Version()

	res := ctl.Submit(context.Background(), scenarioRequest())

	assert.Error(t, res.Err)
	assert.False(t, res.Committed)
	assert.Equal(t, []string{MsgUnavailable}, rec.Messages())
	assert.Equal(t, before, state.Version())
	assert.JSONEq(t, `{"prior":1}`, string(state.Get()[0]))
	client.AssertNumberOfCalls(t, "Summarize", 1)
}

func TestSubmit_PanicIsServiceFailure(t *testing.T) {
	client := summary.ClientFunc(func(context.Context, loan.Request) (loan.Schedule, error) {
		panic("nil map")
	})
	ctl, _, rec := newTestController(client)

	res := ctl.Submit(context.Background(), scenarioRequest())

	assert.ErrorIs(t, res.Err, summary.ErrUnavailable)
	assert.Equal(t, []string{MsgUnavailable}, rec.Messages())
}

func TestSubmit_LastSubmittedWins(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	client := summary.ClientFunc(func(_ context.Context, req loan.Request) (loan.Schedule, error) {
		if req.InterestRate.String() == "1.5" {
			close(slowStarted)
			<-releaseSlow
			return loan.Schedule{loan.ScheduleEntry(`"slow"`)}, nil
		}
		return loan.Schedule{loan.ScheduleEntry(`"fast"`)}, nil
	})
	ctl, state, _ := newTestController(client)

	var wg sync.WaitGroup
	var slow Result
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow = ctl.Submit(context.Background(), scenarioRequest())
	}()
	<-slowStarted

	newer := scenarioRequest()
	newer.InterestRate = loan.Decimal("2.0")
	fast := ctl.Submit(context.Background(), newer)
	require.True(t, fast.Committed)

	close(releaseSlow)
	wg.Wait()

	assert.True(t, slow.Stale)
	assert.False(t, slow.Committed)
	require.Len(t, state.Get(), 1)
	assert.Equal(t, `"fast"`, string(state.Get()[0]))
}

func TestSubmit_NewerInvalidSupersedesInflight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := summary.ClientFunc(func(context.Context, loan.Request) (loan.Schedule, error) {
		close(started)
		<-release
		return loan.Schedule{loan.ScheduleEntry(`1`)}, nil
	})
	ctl, state, _ := newTestController(client)

	done := make(chan Result)
	go func() { done <- ctl.Submit(context.Background(), scenarioRequest()) }()
	<-started

	ctl.Submit(context.Background(), loan.Request{})
	close(release)
	res := <-done

	assert.True(t, res.Stale)
	assert.Empty(t, state.Get())
}

func TestSubmit_RecordsMetrics(t *testing.T) {
	count := func(outcome string) float64 {
		return testutil.ToFloat64(metrics.Submissions.WithLabelValues(outcome))
	}
	rule := func(r loan.Rule) float64 {
		return testutil.ToFloat64(metrics.ValidationFailures.WithLabelValues(string(r)))
	}

	okBefore, invalidBefore := count(metrics.OutcomeOK), count(metrics.OutcomeInvalid)
	unavailBefore := count(metrics.OutcomeUnavailable)
	finalBefore, firstBefore := rule(loan.RuleFinalDate), rule(loan.RuleFirstPayment)

	client := &mockClient{}
	client.On("Summarize", mock.Anything, mock.Anything).Return(loan.Schedule{}, nil).Once()
	client.On("Summarize", mock.Anything, mock.Anything).Return(nil, summary.ErrUnavailable).Once()
	ctl, _, _ := newTestController(client)

	ctl.Submit(context.Background(), scenarioRequest())
	ctl.Submit(context.Background(), scenarioRequest())

	bad := scenarioRequest()
	bad.FinalDate = loan.MustDate("2023-01-01")
	ctl.Submit(context.Background(), bad)

	assert.Equal(t, okBefore+1, count(metrics.OutcomeOK))
	assert.Equal(t, unavailBefore+1, count(metrics.OutcomeUnavailable))
	assert.Equal(t, invalidBefore+1, count(metrics.OutcomeInvalid))
	assert.Equal(t, finalBefore+1, rule(loan.RuleFinalDate))
	assert.Equal(t, firstBefore+1, rule(loan.RuleFirstPayment))
	client.AssertExpectations(t)
}
