package bill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mpsousa/flatbill/internal/allocation"
	"github.com/mpsousa/flatbill/internal/bill"
	"github.com/mpsousa/flatbill/internal/metrics"
	"github.com/mpsousa/flatbill/internal/party"
)

type fixture struct {
	repo     *bill.MockRepository
	tx       *bill.MockCreateTx
	parties  *bill.MockPartyDirectory
	renderer *bill.MockRenderer
	notifier *bill.MockNotifier
	svc      *bill.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		repo:     bill.NewMockRepository(ctrl),
		tx:       bill.NewMockCreateTx(ctrl),
		parties:  bill.NewMockPartyDirectory(ctrl),
		renderer: bill.NewMockRenderer(ctrl),
		notifier: bill.NewMockNotifier(ctrl),
	}

	f.svc = bill.NewService(f.repo, f.parties, f.renderer, f.notifier, metrics.New(prometheus.NewRegistry()))

	return f
}

func TestService_Create(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()

	owner := &party.Party{ID: ownerID, Name: "Owner", Email: "owner@example.com", Role: party.RoleOwner}
	flatmate := &party.Party{ID: flatmateID, Name: "Ana", Email: "ana@example.com", Role: party.RoleFlatmate}

	params := bill.CreateParams{
		MasterReading: 100,
		ActualBill:    500,
		SubReadings: []allocation.SubReading{
			{PartyID: flatmateID, Name: "Ana", Reading: 30},
		},
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		f.parties.EXPECT().GetParty(gomock.Any(), ownerID).Return(owner, nil)
		f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().
			CreateBill(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *bill.Bill) error {
				b.ID = uuid.New()
				b.CreatedAt = time.Now()
				return nil
			})
		f.tx.EXPECT().Commit().Return(nil)
		f.tx.EXPECT().Rollback().Return(nil)

		f.parties.EXPECT().GetParty(gomock.Any(), flatmateID).Return(flatmate, nil)
		f.renderer.EXPECT().RenderBill(gomock.Any(), "Ana").Return([]byte("%PDF-fake"), nil)
		f.notifier.EXPECT().
			Send(gomock.Any(), "ana@example.com", "Ana", "Monthly Electricity Bill", gomock.Any(), []byte("%PDF-fake")).
			Return(nil)

		got, err := f.svc.Create(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, params)
		require.NoError(t, err)
		require.Len(t, got.Details, 2)

		assert.Equal(t, "Ana", got.Details[0].Name)
		assert.InDelta(t, 150, got.Details[0].Amount, 1e-6)
		assert.Equal(t, "Owner", got.Details[1].Name)
		assert.InDelta(t, 70, got.Details[1].Reading, 1e-6)
		assert.InDelta(t, 350, got.Details[1].Amount, 1e-6)
	})

	t.Run("NotAnOwner", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), bill.Requester{PartyID: flatmateID, Role: party.RoleFlatmate}, params)
		assert.ErrorIs(t, err, bill.ErrPermission)
	})

	t.Run("OverAllocation", func(t *testing.T) {
		f := newFixture(t)

		f.parties.EXPECT().GetParty(gomock.Any(), ownerID).Return(owner, nil)

		over := bill.CreateParams{
			MasterReading: 100,
			ActualBill:    500,
			SubReadings: []allocation.SubReading{
				{PartyID: flatmateID, Name: "Ana", Reading: 60},
				{PartyID: uuid.New(), Name: "Rui", Reading: 50},
			},
		}

		_, err := f.svc.Create(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, over)
		assert.ErrorIs(t, err, allocation.ErrOverAllocation)
	})

	t.Run("NotificationFailureDeletesBill", func(t *testing.T) {
		f := newFixture(t)

		var createdID uuid.UUID

		f.parties.EXPECT().GetParty(gomock.Any(), ownerID).Return(owner, nil)
		f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().
			CreateBill(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *bill.Bill) error {
				b.ID = uuid.New()
				createdID = b.ID
				return nil
			})
		f.tx.EXPECT().Commit().Return(nil)
		f.tx.EXPECT().Rollback().Return(nil)

		f.parties.EXPECT().GetParty(gomock.Any(), flatmateID).Return(flatmate, nil)
		f.renderer.EXPECT().RenderBill(gomock.Any(), "Ana").Return([]byte("%PDF-fake"), nil)
		f.notifier.EXPECT().
			Send(gomock.Any(), "ana@example.com", "Ana", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("smtp connection refused"))

		// The whole bill must be rolled back when a single send fails.
		f.repo.EXPECT().
			DeleteBill(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID) error {
				assert.Equal(t, createdID, id)
				return nil
			})

		got, err := f.svc.Create(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, params)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
		assert.Nil(t, got)
	})

	t.Run("PersistenceFailure", func(t *testing.T) {
		f := newFixture(t)

		f.parties.EXPECT().GetParty(gomock.Any(), ownerID).Return(owner, nil)
		f.repo.EXPECT().BeginCreate(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
		f.tx.EXPECT().Rollback().Return(nil)

		_, err := f.svc.Create(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, params)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})
}

func TestService_Get(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()
	otherID := uuid.New()
	billID := uuid.New()

	stored := func() *bill.Bill {
		return &bill.Bill{
			ID:            billID,
			OwnerID:       ownerID,
			MasterReading: 100,
			ActualBill:    500,
			Details: []bill.Detail{
				{Name: "Ana", PartyID: &flatmateID, Reading: 30, Amount: 150},
				{Name: "Owner", PartyID: &ownerID, Reading: 70, Amount: 350},
			},
		}
	}

	type testCase struct {
		name        string
		requester   bill.Requester
		wantErr     error
		wantDetails int
	}

	tests := []testCase{
		{
			name:        "OwnerSeesEverything",
			requester:   bill.Requester{PartyID: ownerID, Role: party.RoleOwner},
			wantDetails: 2,
		},
		{
			name:        "FlatmateSeesOwnDetailOnly",
			requester:   bill.Requester{PartyID: flatmateID, Role: party.RoleFlatmate},
			wantDetails: 1,
		},
		{
			name:      "ForeignFlatmateDenied",
			requester: bill.Requester{PartyID: otherID, Role: party.RoleFlatmate},
			wantErr:   bill.ErrPermission,
		},
		{
			name:      "ForeignOwnerDenied",
			requester: bill.Requester{PartyID: otherID, Role: party.RoleOwner},
			wantErr:   bill.ErrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored(), nil)

			got, err := f.svc.Get(context.Background(), tt.requester, billID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Len(t, got.Details, tt.wantDetails)

			if tt.requester.Role == party.RoleFlatmate {
				assert.Equal(t, "Ana", got.Details[0].Name)
			}
		})
	}

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(nil, bill.ErrNotFound)

		_, err := f.svc.Get(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		assert.ErrorIs(t, err, bill.ErrNotFound)
	})

	t.Run("StoreFailureIsDependencyError", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(nil, errors.New("connection refused"))

		_, err := f.svc.Get(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
		assert.NotErrorIs(t, err, bill.ErrNotFound)
	})
}

func TestService_RenderPDF(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()
	billID := uuid.New()

	stored := func() *bill.Bill {
		return &bill.Bill{
			ID:      billID,
			OwnerID: ownerID,
			Details: []bill.Detail{
				{Name: "Ana", PartyID: &flatmateID, Reading: 30, Amount: 150},
				{Name: "Owner", PartyID: &ownerID, Reading: 70, Amount: 350},
			},
		}
	}

	t.Run("OwnerGetsFullDocument", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored(), nil)
		f.parties.EXPECT().
			GetParty(gomock.Any(), ownerID).
			Return(&party.Party{ID: ownerID, Name: "Owner"}, nil)
		f.renderer.EXPECT().
			RenderBill(gomock.Any(), "Owner").
			DoAndReturn(func(b *bill.Bill, _ string) ([]byte, error) {
				assert.Len(t, b.Details, 2)
				return []byte("%PDF-fake"), nil
			})

		got, err := f.svc.RenderPDF(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-fake"), got)
	})

	t.Run("FlatmateGetsScopedDocument", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored(), nil)
		f.parties.EXPECT().
			GetParty(gomock.Any(), flatmateID).
			Return(&party.Party{ID: flatmateID, Name: "Ana"}, nil)
		f.renderer.EXPECT().
			RenderBill(gomock.Any(), "Ana").
			DoAndReturn(func(b *bill.Bill, _ string) ([]byte, error) {
				require.Len(t, b.Details, 1)
				assert.Equal(t, "Ana", b.Details[0].Name)
				return []byte("%PDF-fake"), nil
			})

		_, err := f.svc.RenderPDF(context.Background(), bill.Requester{PartyID: flatmateID, Role: party.RoleFlatmate}, billID)
		assert.NoError(t, err)
	})

	t.Run("ForeignFlatmateDenied", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored(), nil)

		_, err := f.svc.RenderPDF(context.Background(), bill.Requester{PartyID: uuid.New(), Role: party.RoleFlatmate}, billID)
		assert.ErrorIs(t, err, bill.ErrPermission)
	})

	t.Run("RendererFailure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored(), nil)
		f.parties.EXPECT().
			GetParty(gomock.Any(), ownerID).
			Return(&party.Party{ID: ownerID, Name: "Owner"}, nil)
		f.renderer.EXPECT().RenderBill(gomock.Any(), "Owner").Return(nil, errors.New("font missing"))

		_, err := f.svc.RenderPDF(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})
}

func TestService_List(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()

	t.Run("OwnerListsBills", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().ListBills(gomock.Any(), ownerID).Return([]*bill.Bill{{ID: uuid.New()}}, nil)

		bills, err := f.svc.List(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner})
		require.NoError(t, err)
		assert.Len(t, bills, 1)
	})

	t.Run("StoreFailureIsDependencyError", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().ListBills(gomock.Any(), ownerID).Return(nil, errors.New("connection refused"))

		_, err := f.svc.List(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner})
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})

	t.Run("FlatmateListFailureIsDependencyError", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().ListFlatmateBills(gomock.Any(), flatmateID).Return(nil, errors.New("connection refused"))

		_, err := f.svc.ListForFlatmate(context.Background(), bill.Requester{PartyID: flatmateID, Role: party.RoleFlatmate})
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})
}

func TestService_Delete(t *testing.T) {
	ownerID := uuid.New()
	billID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(&bill.Bill{ID: billID, OwnerID: ownerID}, nil)
		f.repo.EXPECT().DeleteBill(gomock.Any(), billID).Return(nil)

		err := f.svc.Delete(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		assert.NoError(t, err)
	})

	t.Run("NotTheOwningOwner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(&bill.Bill{ID: billID, OwnerID: uuid.New()}, nil)

		err := f.svc.Delete(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		assert.ErrorIs(t, err, bill.ErrPermission)
	})

	t.Run("FlatmateDenied", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Delete(context.Background(), bill.Requester{PartyID: uuid.New(), Role: party.RoleFlatmate}, billID)
		assert.ErrorIs(t, err, bill.ErrPermission)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(nil, bill.ErrNotFound)

		err := f.svc.Delete(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		assert.ErrorIs(t, err, bill.ErrNotFound)
	})

	t.Run("StoreFailureIsDependencyError", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(&bill.Bill{ID: billID, OwnerID: ownerID}, nil)
		f.repo.EXPECT().DeleteBill(gomock.Any(), billID).Return(errors.New("connection refused"))

		err := f.svc.Delete(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})
}

func TestService_Notify(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()
	billID := uuid.New()

	stored := &bill.Bill{
		ID:         billID,
		OwnerID:    ownerID,
		ActualBill: 500,
		CreatedAt:  time.Now(),
		Details: []bill.Detail{
			{Name: "Ana", PartyID: &flatmateID, Reading: 30, Amount: 150},
			{Name: "Owner", PartyID: &ownerID, Reading: 70, Amount: 350},
		},
	}

	t.Run("ResendSucceeds", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored, nil)
		f.parties.EXPECT().
			GetParty(gomock.Any(), flatmateID).
			Return(&party.Party{ID: flatmateID, Name: "Ana", Email: "ana@example.com"}, nil)
		f.renderer.EXPECT().RenderBill(stored, "Ana").Return([]byte("%PDF-fake"), nil)
		f.notifier.EXPECT().
			Send(gomock.Any(), "ana@example.com", "Ana", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Notify(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		assert.NoError(t, err)
	})

	t.Run("FailureKeepsBill", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored, nil)
		f.parties.EXPECT().
			GetParty(gomock.Any(), flatmateID).
			Return(&party.Party{ID: flatmateID, Name: "Ana", Email: "ana@example.com"}, nil)
		f.renderer.EXPECT().RenderBill(stored, "Ana").Return([]byte("%PDF-fake"), nil)
		f.notifier.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("smtp timeout"))
		// No DeleteBill expectation: a resend failure never removes the bill.

		err := f.svc.Notify(context.Background(), bill.Requester{PartyID: ownerID, Role: party.RoleOwner}, billID)
		require.Error(t, err)
		assert.True(t, bill.IsDependencyError(err))
	})

	t.Run("ForeignOwnerDenied", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetBill(gomock.Any(), billID).Return(stored, nil)

		err := f.svc.Notify(context.Background(), bill.Requester{PartyID: uuid.New(), Role: party.RoleOwner}, billID)
		assert.ErrorIs(t, err, bill.ErrPermission)
	})
}
