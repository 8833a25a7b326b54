package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkstudio/internal/domain"
)

func TestPublishSetsNotificationHeaders(t *testing.T) {
	var gotBody string
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings_test", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	err := c.Publish(context.Background(), []byte("New Booking Request from Jo"), &PublishOptions{
		Title:    "New Booking Request",
		Priority: "urgent",
		Tags:     "tattoo,new_booking",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Booking Request from Jo", gotBody)
	assert.Equal(t, "New Booking Request", gotHeaders.Get("Title"))
	assert.Equal(t, "urgent", gotHeaders.Get("Priority"))
	assert.Equal(t, "tattoo,new_booking", gotHeaders.Get("Tags"))
}

func TestPublishReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	err := c.Publish(context.Background(), []byte("x"), nil)
	assert.Error(t, err)
}

func TestPublishEventRoundTrips(t *testing.T) {
	var got domain.SyncEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	err := c.PublishEvent(context.Background(), domain.SyncEvent{
		Type:      domain.EventBookingDelete,
		BookingID: "1700000000000",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventBookingDelete, got.Type)
	assert.Equal(t, "1700000000000", got.BookingID)
}

// history builds one relay feed line wrapping the given message.
func historyLine(t *testing.T, message string) string {
	t.Helper()
	line, err := json.Marshal(map[string]any{
		"id":      "abc123",
		"time":    1700000000,
		"event":   "message",
		"message": message,
	})
	require.NoError(t, err)
	return string(line)
}

func TestFetchHistoryParsesFeed(t *testing.T) {
	bookingMsg := `{"type":"booking","data":{"id":"1700000000000","name":"Jo","email":"jo@x.com"}}`
	deleteMsg := `{"type":"booking_delete","id":"1700000000000"}`
	visitMsg := `{"type":"visit","device":"d1"}`

	feed := historyLine(t, bookingMsg) + "\n" +
		`{"id":"open1","time":1,"event":"open","message":""}` + "\n" +
		"this line is not json\n" +
		historyLine(t, "New Booking Request from Jo") + "\n" +
		historyLine(t, `{"type":"unknown_event"}`) + "\n" +
		historyLine(t, deleteMsg) + "\n" +
		historyLine(t, visitMsg) + "\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings_test/json", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("since"))
		_, _ = io.WriteString(w, feed)
	}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	events, err := c.FetchHistory(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.EventBooking, events[0].Type)
	require.NotNil(t, events[0].Booking)
	assert.Equal(t, "1700000000000", events[0].Booking.ID)
	assert.Equal(t, domain.EventBookingDelete, events[1].Type)
	assert.Equal(t, "1700000000000", events[1].BookingID)
	assert.Equal(t, domain.EventVisit, events[2].Type)
}

func TestFetchHistoryEmptyTopic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	events, err := c.FetchHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchHistoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "bookings_test", 5*time.Second)
	_, err := c.FetchHistory(context.Background())
	assert.Error(t, err)
}
