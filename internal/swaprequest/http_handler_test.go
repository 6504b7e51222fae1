package swaprequest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookswap/internal/apperror"
	"bookswap/internal/httpx"
	"bookswap/internal/logger"
	"bookswap/internal/swap"
)

func asUser(r *http.Request, id, role string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), id, role))
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		target := byBooksBook(t)
		f.expectUpToOffer(target)
		f.books.EXPECT().GetSwappableBook(gomock.Any(), dune.ID).Return(dune, nil)
		f.expectSave()
		h := NewHTTPHandler(f.svc, logger.Discard())

		body := `{"receiverId":"u-bob","bookToSwapWithId":"book-by-books","swapType":"BY_BOOKS",
			"swapOffer":{"offeredBookId":"sb-dune"},"note":"hi"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/swap-requests", strings.NewReader(body)), alice.ID, "USER")
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		for _, frag := range []string{
			`"id":"sr-1"`,
			`"swapStatus":"PENDING"`,
			`"swapType":"BY_BOOKS"`,
			`"senderId":"u-alice"`,
			`"offeredBook":{`,
			`"sender":{"id":"u-alice","username":"alice"}`,
		} {
			assert.Contains(t, rec.Body.String(), frag)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().ExistsByTriple(gomock.Any(), alice.ID, bob.ID, "book-give").Return(true, nil)
		h := NewHTTPHandler(f.svc, logger.Discard())

		body := `{"receiverId":"u-bob","bookToSwapWithId":"book-give","swapType":"GIVE_AWAY"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/swap-requests", strings.NewReader(body)), alice.ID, "USER")
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"SWAP_REQUEST_EXISTS_ALREADY"`)
	})

	t.Run("illegal request is a bad request", func(t *testing.T) {
		f := newFixture(t)
		target := giveAwayBook()
		f.store.EXPECT().ExistsByTriple(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().GetByID(gomock.Any(), alice.ID).Return(alice, nil)
		f.users.EXPECT().GetByID(gomock.Any(), bob.ID).Return(bob, nil)
		f.books.EXPECT().GetByID(gomock.Any(), target.ID).Return(target, nil)
		f.users.EXPECT().IsOwnedBook(gomock.Any(), bob.ID, target.ID).Return(false, nil)
		h := NewHTTPHandler(f.svc, logger.Discard())

		body := `{"receiverId":"u-bob","bookToSwapWithId":"book-give","swapType":"GIVE_AWAY"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/swap-requests", strings.NewReader(body)), alice.ID, "USER")
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bookToSwapWithDoesNotBelongToReceiver")
	})

	t.Run("validation", func(t *testing.T) {
		h := NewHTTPHandler(newFixture(t).svc, logger.Discard())
		req := asUser(httptest.NewRequest(http.MethodPost, "/swap-requests", strings.NewReader(`{"swapType":"GIVE_AWAY"}`)), alice.ID, "USER")
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"receiverId"`)
	})
}

func TestHTTPHandler_ListMine(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().List(gomock.Any(), ListFilter{
		UserID: alice.ID, Direction: DirectionSent, Status: swap.StatusPending, Limit: 20,
	}).Return([]SwapRequest{{
		ID: "sr-1", SenderID: alice.ID, SwapType: swap.TypeGiveAway, SwapStatus: swap.StatusPending,
	}}, 1, nil)
	h := NewHTTPHandler(f.svc, logger.Discard())

	req := asUser(httptest.NewRequest(http.MethodGet, "/me/swap-requests?direction=sent&status=pending", nil), alice.ID, "USER")
	rec := httptest.NewRecorder()
	h.ListMine(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"direction":"sent"`)

	rec = httptest.NewRecorder()
	h.ListMine(rec, asUser(httptest.NewRequest(http.MethodGet, "/me/swap-requests?direction=sideways", nil), alice.ID, "USER"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPHandler_Get(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().GetByID(gomock.Any(), "sr-9").Return(SwapRequest{}, apperror.NotFound("swapRequestNotFound", "sr-9"))
	h := NewHTTPHandler(f.svc, logger.Discard())

	req := asUser(httptest.NewRequest(http.MethodGet, "/swap-requests/sr-9", nil), alice.ID, "USER")
	req.SetPathValue("id", "sr-9")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPHandler_TransitionStatus(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().GetByID(gomock.Any(), "sr-1").
		Return(SwapRequest{ID: "sr-1", SenderID: alice.ID, ReceiverID: bob.ID, SwapStatus: swap.StatusPending}, nil)
	h := NewHTTPHandler(f.svc, logger.Discard())

	req := asUser(httptest.NewRequest(http.MethodPatch, "/swap-requests/sr-1/status", strings.NewReader(`{"status":"REJECTED"}`)), bob.ID, "USER")
	req.SetPathValue("id", "sr-1")
	rec := httptest.NewRecorder()
	h.TransitionStatus(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "swapStatusTransitionNotSupported")
}

func TestHTTPHandler_DeleteAll(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().DeleteAll(gomock.Any()).Return(int64(3), nil)
	h := NewHTTPHandler(f.svc, logger.Discard())

	rec := httptest.NewRecorder()
	h.DeleteAll(rec, asUser(httptest.NewRequest(http.MethodDelete, "/swap-requests", nil), "u-admin", httpx.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":3`)
}

func TestBusPublisher(t *testing.T) {
	bus := &recordingBus{}
	p := NewBusPublisher(bus)
	require.NoError(t, p.PublishCreated(context.Background(), CreatedEvent{ID: "sr-1"}))
	assert.Equal(t, SubjectCreated, bus.subject)
	assert.Equal(t, CreatedEvent{ID: "sr-1"}, bus.payload)
}

type recordingBus struct {
	subject string
	payload any
}

func (b *recordingBus) Publish(_ context.Context, subject string, v any) error {
	b.subject, b.payload = subject, v
	return nil
}
