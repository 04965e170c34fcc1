package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCheckedInGuestsDecodesEnvelope(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{
			"id":"g1",
			"name":"Aisyah",
			"capsuleNumber":"C1",
			"checkinTime":"2026-03-13T15:04:05Z",
			"expectedCheckoutDate":"2026-03-15",
			"isCheckedIn":true,
			"isPaid":false,
			"paymentAmount":"45.50",
			"gender":"female",
			"nationality":"Malaysian",
			"phoneNumber":"+60123456789"
		}]}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "test-key", time.Second)
	guests, err := st.ListCheckedInGuests(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/guests/checked-in", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)

	require.Len(t, guests, 1)
	g := guests[0]
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "Aisyah", g.Name)
	assert.Equal(t, "C1", g.CapsuleNumber)
	assert.True(t, g.IsCheckedIn)
	assert.False(t, g.IsPaid)
	assert.True(t, g.PaymentAmount.Equal(decimal.NewFromFloat(45.5)))
	require.NotNil(t, g.ExpectedCheckoutDate)
	assert.Equal(t, "2026-03-15", *g.ExpectedCheckoutDate)
	assert.Nil(t, g.CheckoutTime)
}

func TestListActiveTokensDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/guest-tokens/active", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{
			"id":"t1",
			"token":"abc123",
			"capsuleNumber":null,
			"guestName":"Walk In",
			"createdAt":"2026-03-14T08:00:00Z",
			"expiresAt":"2026-03-14T20:00:00Z",
			"isUsed":false
		}]}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	tokens, err := st.ListActiveTokens(context.Background())

	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "t1", tokens[0].ID)
	assert.Nil(t, tokens[0].CapsuleNumber)
	require.NotNil(t, tokens[0].GuestName)
	assert.Equal(t, "Walk In", *tokens[0].GuestName)
}

func TestListCapsulesDecodesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"1","number":"C1","section":"back","isAvailable":true,"cleaningStatus":"cleaned","toRent":null,"position":"bottom"},
			{"id":"2","number":"C2","section":"front","isAvailable":false,"cleaningStatus":"to_be_cleaned","toRent":false,"position":null}
		]`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	capsules, err := st.ListCapsules(context.Background())

	require.NoError(t, err)
	require.Len(t, capsules, 2)

	assert.True(t, capsules[0].Rentable())
	require.NotNil(t, capsules[0].Position)
	assert.Equal(t, "bottom", *capsules[0].Position)

	assert.False(t, capsules[1].Rentable())
	assert.True(t, capsules[1].NeedsCleaning())
	assert.Nil(t, capsules[1].Position)
}

func TestListCheckoutHistoryForwardsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/guests/history", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"id":"g1","name":"Aisyah"}],"pagination":{"total":51,"page":2,"limit":25}}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	rows, total, err := st.ListCheckoutHistory(context.Background(), 2, 25)

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(51), total)
}

func TestRecentlyCheckedOutNotFoundMeansNothingToUndo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"No recent checkout found"}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	guest, err := st.RecentlyCheckedOut(context.Background())

	require.NoError(t, err)
	assert.Nil(t, guest)
}

func TestCheckoutPostsGuestID(t *testing.T) {
	var gotMethod, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"g1","name":"Aisyah","isCheckedIn":false}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	guest, err := st.Checkout(context.Background(), "g1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.JSONEq(t, `{"id":"g1"}`, gotBody)
	assert.Equal(t, "g1", guest.ID)
	assert.False(t, guest.IsCheckedIn)
}

func TestCancelTokenUsesDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	err := st.CancelToken(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/guest-tokens/t1", gotPath)
}

func TestReassignTokenBodies(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"t1","token":"abc123"}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)

	target := "C5"
	_, err := st.ReassignToken(context.Background(), "t1", &target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"capsuleNumber":"C5"}`, gotBody)

	_, err = st.ReassignToken(context.Background(), "t1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"autoAssign":true}`, gotBody)
}

func TestUnauthorizedMapsToErrAuthRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "bad-key", time.Second)
	_, err := st.ListCheckedInGuests(context.Background())

	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestBackendMessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message":"Guest already checked out"}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	_, err := st.Checkout(context.Background(), "g1")

	require.Error(t, err)
	assert.Equal(t, "Guest already checked out", err.Error())
	assert.True(t, IsConflict(err))
}

func TestTransportFailureIsNotAConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	_, err := st.Checkout(context.Background(), "g1")

	require.Error(t, err)
	// "connection refused" must never read as the guest being gone.
	assert.False(t, IsConflict(err))
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"already checked out", &RemoteError{StatusCode: 409, Message: "Guest already checked out"}, true},
		{"not found", &RemoteError{StatusCode: 404, Message: "Guest not found"}, true},
		{"case-insensitive", &RemoteError{StatusCode: 409, Message: "Guest ALREADY CHECKED OUT"}, true},
		{"other backend error", &RemoteError{StatusCode: 400, Message: "Capsule occupied"}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
}

func TestReadErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Guest not found"}`, "Guest not found"},
		{"error field", `{"error":"bad request"}`, "bad request"},
		{"plain text", "upstream exploded", "upstream exploded"},
		{"empty body", "", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readErrorMessage(strings.NewReader(tt.body), http.StatusInternalServerError)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBreakerOpensAfterRepeatedBackendFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	for i := 0; i < 3; i++ {
		_, err := st.ListCheckedInGuests(context.Background())
		require.Error(t, err)
	}

	// The fourth call fails fast without reaching the backend.
	_, err := st.ListCheckedInGuests(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, hits)
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Guest not found"}`)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	for i := 0; i < 5; i++ {
		_, err := st.Checkout(context.Background(), "gone")
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, 5, hits)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st := NewHTTPStore(srv.URL, "", time.Second)
	assert.NoError(t, st.Health(context.Background()))
}
