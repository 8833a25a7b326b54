package booking

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkstudio/internal/domain"
	"inkstudio/internal/relay"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) DeleteWithTombstone(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, body []byte, opts *relay.PublishOptions) error {
	args := m.Called(ctx, body, opts)
	return args.Error(0)
}

func (m *MockPublisher) PublishEvent(ctx context.Context, ev domain.SyncEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func testDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 800, 400))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCreatePersistsLocallyAndPublishesStrippedCopy(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)
	pub.On("PublishEvent", mock.Anything, mock.MatchedBy(func(ev domain.SyncEvent) bool {
		return ev.Type == domain.EventBooking && ev.Booking != nil && len(ev.Booking.Images) == 0
	})).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.AnythingOfType("*relay.PublishOptions")).Return(nil)

	res, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:  "Jo",
		Email: "jo@x.com",
		CustomFields: map[string]string{
			"placement":   "Forearm",
			"description": "sleeve",
		},
		Images: []AttachmentInput{{Name: "ref.jpg", Data: testDataURI(t)}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Booking.ID)
	assert.Equal(t, "sleeve", res.Booking.Description)
	assert.Len(t, res.Booking.Images, 1)
	assert.Empty(t, res.Warnings)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateRequiresNameAndEmail(t *testing.T) {
	svc := NewService(new(MockBookingRepository), new(MockPublisher), "device-1")

	_, err := svc.Create(context.Background(), CreateBookingRequest{Name: "  ", Email: "jo@x.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), CreateBookingRequest{Name: "Jo", Email: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateTruncatesAttachmentsAtCap(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uri := testDataURI(t)
	inputs := make([]AttachmentInput, 25)
	for i := range inputs {
		inputs[i] = AttachmentInput{Name: "ref.jpg", Data: uri}
	}

	res, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:   "Jo",
		Email:  "jo@x.com",
		Images: inputs,
	})
	require.NoError(t, err)

	assert.Len(t, res.Booking.Images, MaxAttachments)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "maximum of 20")
}

func TestCreateSkipsUndecodableImages(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	garbage := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("junk"))
	res, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:  "Jo",
		Email: "jo@x.com",
		Images: []AttachmentInput{
			{Name: "bad.jpg", Data: garbage},
			{Name: "good.jpg", Data: testDataURI(t)},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Booking.Images, 1)
	assert.Equal(t, "good.jpg", res.Booking.Images[0].Name)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "bad.jpg")
}

func TestCreateStorageFullIsFatalAndNothingIsPublished(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrStorageFull)

	_, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:  "Jo",
		Email: "jo@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrStorageFull)

	pub.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSucceedsWhenRelayIsDown(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishEvent", mock.Anything, mock.Anything).Return(assert.AnError)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	res, err := svc.Create(context.Background(), CreateBookingRequest{
		Name:  "Jo",
		Email: "jo@x.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Booking)
}

func TestDeletePublishesTombstoneEvent(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("DeleteWithTombstone", mock.Anything, "1700000000000").Return(nil)
	pub.On("PublishEvent", mock.Anything, mock.MatchedBy(func(ev domain.SyncEvent) bool {
		return ev.Type == domain.EventBookingDelete && ev.BookingID == "1700000000000"
	})).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "1700000000000"))

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDeleteLocalFailureSkipsPublish(t *testing.T) {
	repo := new(MockBookingRepository)
	pub := new(MockPublisher)
	svc := NewService(repo, pub, "device-1")

	repo.On("DeleteWithTombstone", mock.Anything, "42").Return(assert.AnError)

	err := svc.Delete(context.Background(), "42")
	assert.Error(t, err)
	pub.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
}

func TestRecordVisitPublishesPing(t *testing.T) {
	pub := new(MockPublisher)
	svc := NewService(new(MockBookingRepository), pub, "device-1")

	pub.On("PublishEvent", mock.Anything, mock.MatchedBy(func(ev domain.SyncEvent) bool {
		return ev.Type == domain.EventVisit && ev.DeviceID == "device-1"
	})).Return(nil)

	svc.RecordVisit(context.Background())
	pub.AssertExpectations(t)
}
