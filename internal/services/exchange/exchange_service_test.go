package exchange

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/config"
	"github.com/rajivgeraev/numisma-api/internal/logger"
	"github.com/rajivgeraev/numisma-api/internal/memstore"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now сдвигает время на секунду при каждом вызове, чтобы порядок был детерминированным
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordedEvent struct {
	kind models.ExchangeEventKind
	ex   models.ExchangeRequest
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) NotifyExchange(kind models.ExchangeEventKind, ex models.ExchangeRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{kind: kind, ex: ex})
}

func testConfig(strict bool) *config.Config {
	return &config.Config{
		Identity: config.IdentityConfig{OwnerUserID: "user-1", VisitorUserID: "user-visitor"},
		Exchange: config.ExchangeConfig{StrictTransitions: strict},
	}
}

func newTestService(t *testing.T, strict bool) (*ExchangeService, *memstore.Store, *recordingNotifier) {
	t.Helper()
	store := memstore.New()
	notifier := &recordingNotifier{}
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewExchangeService(store, testConfig(strict), logger.Nop(), WithNotifier(notifier), WithClock(clock.Now))
	return svc, store, notifier
}

var (
	visitor = models.Actor{Role: models.RoleVisitor}
	owner   = models.Actor{UserID: "user-1", Role: models.RoleOwner}
)

func validInput() CreateExchangeInput {
	return CreateExchangeInput{
		FromPieceID:    "p1",
		ToPieceID:      "p2",
		ToUserID:       "u1",
		RequesterName:  "Ana",
		RequesterEmail: "ana@x.com",
	}
}

func TestCreate_Pending(t *testing.T) {
	svc, _, notifier := newTestService(t, false)

	ex, err := svc.Create(context.Background(), visitor, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, ex.ID)
	assert.Equal(t, models.StatusPending, ex.Status)
	assert.Nil(t, ex.CompletedAt)
	assert.Nil(t, ex.Message)
	assert.Equal(t, "user-visitor", ex.FromUserID)
	assert.Equal(t, "u1", ex.ToUserID)
	assert.Equal(t, 1, ex.Version)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.EventExchangeCreated, notifier.events[0].kind)
}

func TestCreate_UsesActorAndOwnerDefaults(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	in := validInput()
	in.ToUserID = ""
	in.Message = "  Me interesa su Morgan Dollar  "
	ex, err := svc.Create(context.Background(), models.Actor{UserID: "tg-42", Role: models.RoleVisitor}, in)
	require.NoError(t, err)
	assert.Equal(t, "tg-42", ex.FromUserID)
	assert.Equal(t, "user-1", ex.ToUserID)
	require.NotNil(t, ex.Message)
	assert.Equal(t, "Me interesa su Morgan Dollar", *ex.Message)
}

func TestCreate_SamePieceRejected(t *testing.T) {
	svc, store, _ := newTestService(t, false)

	in := validInput()
	in.ToPieceID = "p1"
	_, err := svc.Create(context.Background(), visitor, in)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	all, err := store.ListExchanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_RequiredFields(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	cases := map[string]func(in *CreateExchangeInput){
		"blank name":    func(in *CreateExchangeInput) { in.RequesterName = "   " },
		"blank email":   func(in *CreateExchangeInput) { in.RequesterEmail = "" },
		"invalid email": func(in *CreateExchangeInput) { in.RequesterEmail = "not-an-email" },
		"blank from":    func(in *CreateExchangeInput) { in.FromPieceID = "" },
		"blank to":      func(in *CreateExchangeInput) { in.ToPieceID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), visitor, in)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err), err)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	_, err := svc.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestNegotiationScenario(t *testing.T) {
	svc, _, notifier := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)

	// B: контрпредложение владельца
	ex, err = svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCountered, ex.Status)
	require.NotNil(t, ex.CounterOffer)
	assert.Equal(t, "add $10", *ex.CounterOffer)
	assert.Nil(t, ex.CompletedAt)

	// D: посетитель отвечает новым контрпредложением
	ex, err = svc.RespondToCounter(ctx, visitor, ex.ID, "new", "how about $5 instead")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCountered, ex.Status)
	assert.Equal(t, "how about $5 instead", *ex.CounterOffer)
	assert.Nil(t, ex.CounterResponse)
	assert.Nil(t, ex.CompletedAt)

	// C: принятие контрпредложения
	ex, err = svc.RespondToCounter(ctx, visitor, ex.ID, "accept", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounterAccepted, ex.Status)
	require.NotNil(t, ex.CounterResponse)
	assert.Equal(t, DefaultCounterAcceptedResponse, *ex.CounterResponse)
	assert.NotNil(t, ex.CompletedAt)
	assert.Equal(t, 4, ex.Version)

	kinds := make([]models.ExchangeEventKind, 0, len(notifier.events))
	for _, e := range notifier.events {
		kinds = append(kinds, e.kind)
	}
	assert.Equal(t, []models.ExchangeEventKind{
		models.EventExchangeCreated,
		models.EventCounterOffered,
		models.EventCounterResponded,
		models.EventCounterResponded,
	}, kinds)
}

func TestRespondToCounter_RejectDefaultsAndCustomMessage(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
	require.NoError(t, err)

	rejected, err := svc.RespondToCounter(ctx, visitor, ex.ID, "reject", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounterRejected, rejected.Status)
	assert.Equal(t, DefaultCounterRejectedResponse, *rejected.CounterResponse)
	assert.NotNil(t, rejected.CompletedAt)

	other, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, other.ID, "add $20")
	require.NoError(t, err)
	accepted, err := svc.RespondToCounter(ctx, visitor, other.ID, "accept", "¡Trato hecho!")
	require.NoError(t, err)
	assert.Equal(t, "¡Trato hecho!", *accepted.CounterResponse)
}

func TestRespondToCounter_NewWithoutMessageKeepsCounter(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
	require.NoError(t, err)

	ex, err = svc.RespondToCounter(ctx, visitor, ex.ID, "new", "")
	require.NoError(t, err)
	assert.Equal(t, "add $10", *ex.CounterOffer)
}

func TestRespondToCounter_NewReopensTerminal(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
	require.NoError(t, err)
	ex, err = svc.RespondToCounter(ctx, visitor, ex.ID, "reject", "")
	require.NoError(t, err)
	require.NotNil(t, ex.CompletedAt)

	ex, err = svc.RespondToCounter(ctx, visitor, ex.ID, "new", "segunda oferta")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCountered, ex.Status)
	assert.Nil(t, ex.CompletedAt)
	assert.Equal(t, "segunda oferta", *ex.CounterOffer)
}

func TestRespondToCounter_UnknownAction(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ex, err := svc.Create(context.Background(), visitor, validInput())
	require.NoError(t, err)

	_, err = svc.RespondToCounter(context.Background(), visitor, ex.ID, "maybe", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusCountered)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, owner, "missing", models.StatusAccepted)
	assert.True(t, apperr.IsNotFound(err))

	rejected, err := svc.UpdateStatus(ctx, owner, ex.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.NotNil(t, rejected.CompletedAt)
}

func TestUpdateStatus_FromCountered(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
	require.NoError(t, err)

	ex, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, ex.Status)
	assert.NotNil(t, ex.CompletedAt)
}

func TestUpdateStatus_TwiceIsAllowedInLaxMode(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.NoError(t, err)
	again, err := svc.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, again.Status)
}

func TestUpdateStatus_TwiceConflictsInStrictMode(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "too late")
	assert.True(t, apperr.IsConflict(err))
}

func TestSendCounterOffer_ClearsCompletedAtInLaxMode(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, owner, ex.ID, models.StatusRejected)
	require.NoError(t, err)

	ex, err = svc.SendCounterOffer(ctx, owner, ex.ID, "reconsidero: add $10")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCountered, ex.Status)
	assert.Nil(t, ex.CompletedAt)

	_, err = svc.SendCounterOffer(ctx, owner, ex.ID, "   ")
	assert.True(t, apperr.IsValidation(err))
}

func TestListHistory_TerminalSubsetByUpdatedAt(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	create := func() string {
		ex, err := svc.Create(ctx, visitor, validInput())
		require.NoError(t, err)
		return ex.ID
	}
	pending := create()
	first := create()
	second := create()
	countered := create()
	third := create()

	_, err := svc.UpdateStatus(ctx, owner, second, models.StatusRejected)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, owner, first, models.StatusAccepted)
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, countered, "add $10")
	require.NoError(t, err)
	_, err = svc.SendCounterOffer(ctx, owner, third, "add $20")
	require.NoError(t, err)
	_, err = svc.RespondToCounter(ctx, visitor, third, "accept", "")
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, third, all[0].ID)
	assert.Equal(t, pending, all[4].ID)

	history, err := svc.ListHistory(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(history))
	for _, ex := range history {
		ids = append(ids, ex.ID)
		assert.True(t, ex.Status.Terminal())
	}
	assert.Equal(t, []string{third, first, second}, ids)

	// completedAt задан тогда и только тогда, когда статус завершенный
	for _, ex := range all {
		assert.True(t, ex.Status.Valid())
		assert.Equal(t, ex.Status.Terminal(), ex.CompletedAt != nil, ex.Status)
	}
}

type racingStore struct {
	*memstore.Store
	once sync.Once
	race func()
}

func (s *racingStore) UpdateExchange(ctx context.Context, ex *models.ExchangeRequest, expectedVersion int) error {
	s.once.Do(s.race)
	return s.Store.UpdateExchange(ctx, ex, expectedVersion)
}

func TestConcurrentWriteIsDetected(t *testing.T) {
	base := memstore.New()
	svc := NewExchangeService(base, testConfig(false), logger.Nop())
	ctx := context.Background()

	ex, err := svc.Create(ctx, visitor, validInput())
	require.NoError(t, err)

	racer := &racingStore{Store: base}
	racer.race = func() {
		// другой участник успевает записать раньше
		_, err := svc.SendCounterOffer(ctx, owner, ex.ID, "add $10")
		require.NoError(t, err)
	}
	contended := NewExchangeService(racer, testConfig(false), logger.Nop())

	_, err = contended.UpdateStatus(ctx, owner, ex.ID, models.StatusAccepted)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	current, err := svc.Get(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCountered, current.Status)
}
