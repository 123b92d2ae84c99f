package invitation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mpsousa/flatbill/internal/invitation"
	"github.com/mpsousa/flatbill/internal/party"
)

const baseURL = "http://localhost:8080"

// fixedTokenSource returns a predetermined token.
type fixedTokenSource struct {
	token string
}

func (s fixedTokenSource) Token() (string, error) { return s.token, nil }

// plainHasher marks hashes without real bcrypt work to keep tests fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error { return nil }

func TestService_Create(t *testing.T) {
	ownerID := uuid.New()

	type testCase struct {
		name      string
		setupMock func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory) {
				parties.EXPECT().
					GetPartyByEmail(gomock.Any(), "ana@example.com").
					Return(nil, party.ErrNotFound)
				repo.EXPECT().
					CreateInvitation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invitation.Invitation) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "DuplicateAccount",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory) {
				parties.EXPECT().
					GetPartyByEmail(gomock.Any(), "ana@example.com").
					Return(&party.Party{ID: uuid.New(), Email: "ana@example.com"}, nil)
			},
			wantErr: invitation.ErrDuplicateAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invitation.NewMockRepository(ctrl)
			parties := invitation.NewMockPartyDirectory(ctrl)
			tt.setupMock(repo, parties)

			svc := invitation.NewService(repo, parties, fixedTokenSource{token: "tok123"}, plainHasher{}, baseURL)

			inv, err := svc.Create(context.Background(), ownerID, "Ana", "ana@example.com")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, inv)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "tok123", inv.Token)
			assert.Equal(t, ownerID, inv.OwnerID)
			assert.WithinDuration(t, time.Now().Add(invitation.TTL), inv.ExpiresAt, time.Minute)
			assert.Equal(t, baseURL+"/accept-invitation?token=tok123", svc.AcceptLink(inv))
		})
	}
}

func TestService_Validate(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(repo *invitation.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Valid",
			setupMock: func(repo *invitation.MockRepository) {
				repo.EXPECT().
					GetInvitationByToken(gomock.Any(), "tok123").
					Return(&invitation.Invitation{
						Name:      "Ana",
						Email:     "ana@example.com",
						Token:     "tok123",
						ExpiresAt: time.Now().Add(time.Hour),
					}, nil)
			},
		},
		{
			name: "UnknownToken",
			setupMock: func(repo *invitation.MockRepository) {
				repo.EXPECT().
					GetInvitationByToken(gomock.Any(), "tok123").
					Return(nil, invitation.ErrNotFound)
			},
			wantErr: invitation.ErrInvalidToken,
		},
		{
			name: "Expired",
			setupMock: func(repo *invitation.MockRepository) {
				repo.EXPECT().
					GetInvitationByToken(gomock.Any(), "tok123").
					Return(&invitation.Invitation{
						Token:     "tok123",
						ExpiresAt: time.Now().Add(-time.Hour),
					}, nil)
			},
			wantErr: invitation.ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invitation.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := invitation.NewService(repo, invitation.NewMockPartyDirectory(ctrl), fixedTokenSource{}, plainHasher{}, baseURL)

			inv, err := svc.Validate(context.Background(), "tok123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ana", inv.Name)
			assert.Equal(t, "ana@example.com", inv.Email)
		})
	}
}

func TestService_DependencyErrors(t *testing.T) {
	ownerID := uuid.New()

	newService := func(t *testing.T) (*invitation.MockRepository, *invitation.MockPartyDirectory, *invitation.Service) {
		t.Helper()

		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		repo := invitation.NewMockRepository(ctrl)
		parties := invitation.NewMockPartyDirectory(ctrl)
		svc := invitation.NewService(repo, parties, fixedTokenSource{token: "tok123"}, plainHasher{}, baseURL)

		return repo, parties, svc
	}

	t.Run("ValidateStoreFailure", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().
			GetInvitationByToken(gomock.Any(), "tok123").
			Return(nil, errors.New("connection refused"))

		_, err := svc.Validate(context.Background(), "tok123")
		require.Error(t, err)
		assert.True(t, invitation.IsDependencyError(err))
		assert.NotErrorIs(t, err, invitation.ErrInvalidToken)
	})

	t.Run("CreateStoreFailure", func(t *testing.T) {
		repo, parties, svc := newService(t)

		parties.EXPECT().GetPartyByEmail(gomock.Any(), "ana@example.com").Return(nil, party.ErrNotFound)
		repo.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		_, err := svc.Create(context.Background(), ownerID, "Ana", "ana@example.com")
		require.Error(t, err)
		assert.True(t, invitation.IsDependencyError(err))
	})

	t.Run("ListStoreFailure", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().ListInvitations(gomock.Any(), ownerID).Return(nil, errors.New("connection refused"))

		_, err := svc.List(context.Background(), ownerID)
		require.Error(t, err)
		assert.True(t, invitation.IsDependencyError(err))
	})
}

func TestService_Accept(t *testing.T) {
	ownerID := uuid.New()

	pending := func() *invitation.Invitation {
		return &invitation.Invitation{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			Name:      "Ana",
			Email:     "ana@example.com",
			Token:     "tok123",
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	type testCase struct {
		name      string
		password  string
		setupMock func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(pending(), nil)
				parties.EXPECT().GetPartyByEmail(gomock.Any(), "ana@example.com").Return(nil, party.ErrNotFound)
				repo.EXPECT().BeginAccept(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ConsumeInvitation(gomock.Any(), "tok123").Return(pending(), nil)
				tx.EXPECT().
					CreateFlatmate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *party.Party) error {
						p.ID = uuid.New()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name:     "ConsumedByConcurrentAccept",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(pending(), nil)
				parties.EXPECT().GetPartyByEmail(gomock.Any(), "ana@example.com").Return(nil, party.ErrNotFound)
				repo.EXPECT().BeginAccept(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ConsumeInvitation(gomock.Any(), "tok123").Return(nil, invitation.ErrInvalidToken)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: invitation.ErrInvalidToken,
		},
		{
			name:     "AccountAppearedSinceValidation",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(pending(), nil)
				parties.EXPECT().
					GetPartyByEmail(gomock.Any(), "ana@example.com").
					Return(&party.Party{Email: "ana@example.com"}, nil)
			},
			wantErr: invitation.ErrDuplicateAccount,
		},
		{
			name:     "DuplicateInsideTx",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(pending(), nil)
				parties.EXPECT().GetPartyByEmail(gomock.Any(), "ana@example.com").Return(nil, party.ErrNotFound)
				repo.EXPECT().BeginAccept(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ConsumeInvitation(gomock.Any(), "tok123").Return(pending(), nil)
				tx.EXPECT().CreateFlatmate(gomock.Any(), gomock.Any()).Return(party.ErrDuplicateEmail)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: invitation.ErrDuplicateAccount,
		},
		{
			name:     "ReplayedToken",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(nil, invitation.ErrNotFound)
			},
			wantErr: invitation.ErrInvalidToken,
		},
		{
			name:     "Expired",
			password: "s3cretpass",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				expired := pending()
				expired.ExpiresAt = time.Now().Add(-time.Minute)
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(expired, nil)
			},
			wantErr: invitation.ErrExpired,
		},
		{
			name:     "WeakPassword",
			password: "short",
			setupMock: func(repo *invitation.MockRepository, parties *invitation.MockPartyDirectory, tx *invitation.MockAcceptTx) {
				repo.EXPECT().GetInvitationByToken(gomock.Any(), "tok123").Return(pending(), nil)
			},
			wantErr: party.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invitation.NewMockRepository(ctrl)
			parties := invitation.NewMockPartyDirectory(ctrl)
			tx := invitation.NewMockAcceptTx(ctrl)
			tt.setupMock(repo, parties, tx)

			svc := invitation.NewService(repo, parties, fixedTokenSource{token: "tok123"}, plainHasher{}, baseURL)

			p, err := svc.Accept(context.Background(), "tok123", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ana", p.Name)
			assert.Equal(t, "ana@example.com", p.Email)
			assert.Equal(t, party.RoleFlatmate, p.Role)
			require.NotNil(t, p.OwnerID)
			assert.Equal(t, ownerID, *p.OwnerID)
			assert.Equal(t, "hashed:s3cretpass", p.PasswordHash)
		})
	}
}

func TestCryptoTokenSource(t *testing.T) {
	src := invitation.CryptoTokenSource{}

	first, err := src.Token()
	require.NoError(t, err)
	assert.Len(t, first, 64) // 32 bytes, hex encoded

	second, err := src.Token()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
