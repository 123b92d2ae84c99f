package party_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mpsousa/flatbill/internal/party"
)

func setupMocks(t *testing.T) (*party.MockRepository, *party.MockHasher, *party.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := party.NewMockRepository(ctrl)
	hasher := party.NewMockHasher(ctrl)

	return repo, hasher, party.NewService(repo, hasher)
}

func TestService_RegisterOwner(t *testing.T) {
	type testCase struct {
		name      string
		password  string
		setupMock func(repo *party.MockRepository, hasher *party.MockHasher)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "s3cretpass",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {
				hasher.EXPECT().Hash("s3cretpass").Return("hashed", nil)
				repo.EXPECT().
					CreateParty(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *party.Party) error {
						p.ID = uuid.New()
						p.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:      "WeakPassword",
			password:  "short",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {},
			wantErr:   party.ErrWeakPassword,
		},
		{
			name:     "DuplicateEmail",
			password: "s3cretpass",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {
				hasher.EXPECT().Hash("s3cretpass").Return("hashed", nil)
				repo.EXPECT().CreateParty(gomock.Any(), gomock.Any()).Return(party.ErrDuplicateEmail)
			},
			wantErr: party.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, hasher, svc := setupMocks(t)
			tt.setupMock(repo, hasher)

			p, err := svc.RegisterOwner(context.Background(), "Maria", "maria@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, party.RoleOwner, p.Role)
			assert.Nil(t, p.OwnerID)
			assert.Equal(t, "hashed", p.PasswordHash)
			assert.NotEmpty(t, p.ID)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	stored := &party.Party{
		ID:           uuid.New(),
		Email:        "maria@example.com",
		Role:         party.RoleOwner,
		PasswordHash: "hashed",
	}

	type testCase struct {
		name      string
		setupMock func(repo *party.MockRepository, hasher *party.MockHasher)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {
				repo.EXPECT().GetPartyByEmail(gomock.Any(), "maria@example.com").Return(stored, nil)
				hasher.EXPECT().Compare("hashed", "s3cretpass").Return(nil)
			},
		},
		{
			name: "UnknownEmail",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {
				repo.EXPECT().
					GetPartyByEmail(gomock.Any(), "maria@example.com").
					Return(nil, party.ErrNotFound)
			},
			wantErr: party.ErrInvalidCredentials,
		},
		{
			name: "WrongPassword",
			setupMock: func(repo *party.MockRepository, hasher *party.MockHasher) {
				repo.EXPECT().GetPartyByEmail(gomock.Any(), "maria@example.com").Return(stored, nil)
				hasher.EXPECT().Compare("hashed", "s3cretpass").Return(assert.AnError)
			},
			wantErr: party.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, hasher, svc := setupMocks(t)
			tt.setupMock(repo, hasher)

			p, err := svc.Authenticate(context.Background(), "maria@example.com", "s3cretpass")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, p.ID)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	id := uuid.New()
	stored := &party.Party{ID: id, PasswordHash: "old-hash"}

	t.Run("Success", func(t *testing.T) {
		repo, hasher, svc := setupMocks(t)

		repo.EXPECT().GetParty(gomock.Any(), id).Return(stored, nil)
		hasher.EXPECT().Compare("old-hash", "oldpassword").Return(nil)
		hasher.EXPECT().Hash("newpassword").Return("new-hash", nil)
		repo.EXPECT().UpdatePassword(gomock.Any(), id, "new-hash").Return(nil)

		err := svc.ChangePassword(context.Background(), id, "oldpassword", "newpassword")
		assert.NoError(t, err)
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		repo, hasher, svc := setupMocks(t)

		repo.EXPECT().GetParty(gomock.Any(), id).Return(stored, nil)
		hasher.EXPECT().Compare("old-hash", "wrong").Return(assert.AnError)

		err := svc.ChangePassword(context.Background(), id, "wrong", "newpassword")
		assert.ErrorIs(t, err, party.ErrInvalidCredentials)
	})

	t.Run("WeakNewPassword", func(t *testing.T) {
		_, _, svc := setupMocks(t)

		err := svc.ChangePassword(context.Background(), id, "oldpassword", "short")
		assert.ErrorIs(t, err, party.ErrWeakPassword)
	})
}

func TestService_RemoveFlatmate(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo, _, svc := setupMocks(t)

		repo.EXPECT().GetParty(gomock.Any(), flatmateID).Return(&party.Party{
			ID:      flatmateID,
			Role:    party.RoleFlatmate,
			OwnerID: &ownerID,
		}, nil)
		repo.EXPECT().DeleteParty(gomock.Any(), flatmateID).Return(nil)

		err := svc.RemoveFlatmate(context.Background(), ownerID, flatmateID)
		assert.NoError(t, err)
	})

	t.Run("NotManagedByCaller", func(t *testing.T) {
		repo, _, svc := setupMocks(t)

		other := uuid.New()
		repo.EXPECT().GetParty(gomock.Any(), flatmateID).Return(&party.Party{
			ID:      flatmateID,
			Role:    party.RoleFlatmate,
			OwnerID: &other,
		}, nil)

		err := svc.RemoveFlatmate(context.Background(), ownerID, flatmateID)
		assert.ErrorIs(t, err, party.ErrNotFound)
	})

	t.Run("AlreadyRemoved", func(t *testing.T) {
		repo, _, svc := setupMocks(t)

		// The store reports a zero-row delete as ErrNotFound.
		repo.EXPECT().GetParty(gomock.Any(), flatmateID).Return(&party.Party{
			ID:      flatmateID,
			Role:    party.RoleFlatmate,
			OwnerID: &ownerID,
		}, nil)
		repo.EXPECT().DeleteParty(gomock.Any(), flatmateID).Return(party.ErrNotFound)

		err := svc.RemoveFlatmate(context.Background(), ownerID, flatmateID)
		assert.ErrorIs(t, err, party.ErrNotFound)
	})

	t.Run("TargetIsOwner", func(t *testing.T) {
		repo, _, svc := setupMocks(t)

		repo.EXPECT().GetParty(gomock.Any(), flatmateID).Return(&party.Party{
			ID:   flatmateID,
			Role: party.RoleOwner,
		}, nil)

		err := svc.RemoveFlatmate(context.Background(), ownerID, flatmateID)
		assert.ErrorIs(t, err, party.ErrNotFound)
	})
}
