package support

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/collection"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
	"github.com/magabrotheeeer/stealthnet-panel/internal/models"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/session"
)

// BackendMock мок поддержки
type BackendMock struct {
	mock.Mock
}

func (m *BackendMock) MyTickets(ctx context.Context, token string) ([]models.SupportTicket, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *BackendMock) AllTickets(ctx context.Context, token string) ([]models.SupportTicket, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *BackendMock) Ticket(ctx context.Context, token string, id int) (models.SupportTicket, error) {
	args := m.Called(ctx, token, id)
	return args.Get(0).(models.SupportTicket), args.Error(1)
}

func (m *BackendMock) CreateTicket(ctx context.Context, token string, in models.NewTicketInput) (int, error) {
	args := m.Called(ctx, token, in)
	return args.Int(0), args.Error(1)
}

func (m *BackendMock) Reply(ctx context.Context, token string, id int, message string) (models.TicketMessage, error) {
	args := m.Called(ctx, token, id, message)
	return args.Get(0).(models.TicketMessage), args.Error(1)
}

func (m *BackendMock) SetTicketStatus(ctx context.Context, token string, id int, status models.TicketStatus) error {
	args := m.Called(ctx, token, id, status)
	return args.Error(0)
}

var (
	clientState = session.State{Token: "tok", Role: models.RoleClient}
	adminState  = session.State{Token: "adm", Role: models.RoleAdmin}
)

func TestList_ByRole(t *testing.T) {
	m := &BackendMock{}
	m.On("MyTickets", mock.Anything, "tok").Return([]models.SupportTicket{{ID: 1}}, nil)
	m.On("AllTickets", mock.Anything, "adm").Return([]models.SupportTicket{{ID: 1}, {ID: 2}}, nil)
	svc := New(m, sl.Discard())
	ctx := context.Background()

	mine, err := svc.List(ctx, clientState)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Len())

	all, err := svc.List(ctx, adminState)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Len())

	_, err = svc.List(ctx, session.State{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReply(t *testing.T) {
	open := models.SupportTicket{ID: 7, Status: models.TicketOpen, Messages: []models.TicketMessage{{ID: 1, Message: "привет"}}}

	tests := []struct {
		name      string
		thread    models.SupportTicket
		message   string
		setupMock func(*BackendMock)
		wantErr   error
		wantLen   int
	}{
		{
			name:    "сообщение добавляется в конец",
			thread:  open,
			message: "помогите",
			setupMock: func(m *BackendMock) {
				m.On("Reply", mock.Anything, "tok", 7, "помогите").
					Return(models.TicketMessage{ID: 2, Message: "помогите"}, nil)
			},
			wantLen: 2,
		},
		{
			name:      "закрытое обращение",
			thread:    models.SupportTicket{ID: 7, Status: models.TicketClosed},
			message:   "еще",
			setupMock: func(_ *BackendMock) {},
			wantErr:   ErrTicketClosed,
		},
		{
			name:      "пустое сообщение",
			thread:    open,
			message:   "   ",
			setupMock: func(_ *BackendMock) {},
			wantErr:   ErrEmptyMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &BackendMock{}
			tt.setupMock(m)
			got, err := New(m, sl.Discard()).Reply(context.Background(), "tok", tt.thread, tt.message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			require.Len(t, got.Messages, tt.wantLen)
			assert.Equal(t, 2, got.Messages[1].ID)
			assert.Len(t, open.Messages, 1)
		})
	}
}

func TestToggle_UpdatesThreadAndList(t *testing.T) {
	m := &BackendMock{}
	m.On("SetTicketStatus", mock.Anything, "adm", 2, models.TicketClosed).Return(nil)
	svc := New(m, sl.Discard())

	list := collection.New([]models.SupportTicket{{ID: 1, Status: models.TicketOpen}, {ID: 2, Status: models.TicketOpen}})
	thread := models.SupportTicket{ID: 2, Status: models.TicketOpen}

	thread, list, err := svc.Toggle(context.Background(), adminState, thread, list)
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, thread.Status)
	got, _ := list.Get("2")
	assert.Equal(t, models.TicketClosed, got.Status)
	other, _ := list.Get("1")
	assert.Equal(t, models.TicketOpen, other.Status)
}

func TestToggle_FailureKeepsState(t *testing.T) {
	m := &BackendMock{}
	m.On("SetTicketStatus", mock.Anything, "adm", 2, models.TicketClosed).Return(errors.New("boom"))

	list := collection.New([]models.SupportTicket{{ID: 2, Status: models.TicketOpen}})
	thread, list, err := New(m, sl.Discard()).Toggle(context.Background(), adminState,
		models.SupportTicket{ID: 2, Status: models.TicketOpen}, list)
	require.Error(t, err)
	assert.Equal(t, models.TicketOpen, thread.Status)
	got, _ := list.Get("2")
	assert.Equal(t, models.TicketOpen, got.Status)
}

func TestToggle_ClientForbidden(t *testing.T) {
	_, _, err := New(&BackendMock{}, sl.Discard()).Toggle(context.Background(), clientState, models.SupportTicket{ID: 1}, Tickets{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate(t *testing.T) {
	m := &BackendMock{}
	m.On("CreateTicket", mock.Anything, "tok", models.NewTicketInput{Subject: "VPN", Message: "не работает"}).Return(9, nil)
	svc := New(m, sl.Discard())

	id, err := svc.Create(context.Background(), "tok", models.NewTicketInput{Subject: " VPN ", Message: "не работает"})
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = svc.Create(context.Background(), "tok", models.NewTicketInput{Subject: "VPN"})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestThread_FillsID(t *testing.T) {
	m := &BackendMock{}
	m.On("Ticket", mock.Anything, "tok", 5).Return(models.SupportTicket{Subject: "s"}, nil)

	got, err := New(m, sl.Discard()).Thread(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ID)
	assert.Equal(t, "Обращение закрыто", Message(ErrTicketClosed))
}
