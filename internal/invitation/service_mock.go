// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=service_mock.go -package=invitation
//

// Package invitation is a generated GoMock package.
package invitation

import (
	context "context"
	reflect "reflect"

	uuid "github.com/google/uuid"
	party "github.com/mpsousa/flatbill/internal/party"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// BeginAccept mocks base method.
func (m *MockRepository) BeginAccept(ctx context.Context) (AcceptTx, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginAccept", ctx)
	ret0, _ := ret[0].(AcceptTx)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BeginAccept indicates an expected call of BeginAccept.
func (mr *MockRepositoryMockRecorder) BeginAccept(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginAccept", reflect.TypeOf((*MockRepository)(nil).BeginAccept), ctx)
}

// CreateInvitation mocks base method.
func (m *MockRepository) CreateInvitation(ctx context.Context, inv *Invitation) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateInvitation", ctx, inv)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateInvitation indicates an expected call of CreateInvitation.
func (mr *MockRepositoryMockRecorder) CreateInvitation(ctx, inv any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateInvitation", reflect.TypeOf((*MockRepository)(nil).CreateInvitation), ctx, inv)
}

// GetInvitationByToken mocks base method.
func (m *MockRepository) GetInvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetInvitationByToken", ctx, token)
	ret0, _ := ret[0].(*Invitation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetInvitationByToken indicates an expected call of GetInvitationByToken.
func (mr *MockRepositoryMockRecorder) GetInvitationByToken(ctx, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetInvitationByToken", reflect.TypeOf((*MockRepository)(nil).GetInvitationByToken), ctx, token)
}

// ListInvitations mocks base method.
func (m *MockRepository) ListInvitations(ctx context.Context, ownerID uuid.UUID) ([]*Invitation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListInvitations", ctx, ownerID)
	ret0, _ := ret[0].([]*Invitation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListInvitations indicates an expected call of ListInvitations.
func (mr *MockRepositoryMockRecorder) ListInvitations(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListInvitations", reflect.TypeOf((*MockRepository)(nil).ListInvitations), ctx, ownerID)
}

// RevokeInvitation mocks base method.
func (m *MockRepository) RevokeInvitation(ctx context.Context, id, ownerID uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RevokeInvitation", ctx, id, ownerID)
	ret0, _ := ret[0].(error)
	return ret0
}

// RevokeInvitation indicates an expected call of RevokeInvitation.
func (mr *MockRepositoryMockRecorder) RevokeInvitation(ctx, id, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RevokeInvitation", reflect.TypeOf((*MockRepository)(nil).RevokeInvitation), ctx, id, ownerID)
}

// MockAcceptTx is a mock of AcceptTx interface.
type MockAcceptTx struct {
	ctrl     *gomock.Controller
	recorder *MockAcceptTxMockRecorder
	isgomock struct{}
}

// MockAcceptTxMockRecorder is the mock recorder for MockAcceptTx.
type MockAcceptTxMockRecorder struct {
	mock *MockAcceptTx
}

// NewMockAcceptTx creates a new mock instance.
func NewMockAcceptTx(ctrl *gomock.Controller) *MockAcceptTx {
	mock := &MockAcceptTx{ctrl: ctrl}
	mock.recorder = &MockAcceptTxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAcceptTx) EXPECT() *MockAcceptTxMockRecorder {
	return m.recorder
}

// Commit mocks base method.
func (m *MockAcceptTx) Commit() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit")
	ret0, _ := ret[0].(error)
	return ret0
}

// Commit indicates an expected call of Commit.
func (mr *MockAcceptTxMockRecorder) Commit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockAcceptTx)(nil).Commit))
}

// ConsumeInvitation mocks base method.
func (m *MockAcceptTx) ConsumeInvitation(ctx context.Context, token string) (*Invitation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ConsumeInvitation", ctx, token)
	ret0, _ := ret[0].(*Invitation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ConsumeInvitation indicates an expected call of ConsumeInvitation.
func (mr *MockAcceptTxMockRecorder) ConsumeInvitation(ctx, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ConsumeInvitation", reflect.TypeOf((*MockAcceptTx)(nil).ConsumeInvitation), ctx, token)
}

// CreateFlatmate mocks base method.
func (m *MockAcceptTx) CreateFlatmate(ctx context.Context, p *party.Party) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateFlatmate", ctx, p)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateFlatmate indicates an expected call of CreateFlatmate.
func (mr *MockAcceptTxMockRecorder) CreateFlatmate(ctx, p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateFlatmate", reflect.TypeOf((*MockAcceptTx)(nil).CreateFlatmate), ctx, p)
}

// Rollback mocks base method.
func (m *MockAcceptTx) Rollback() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rollback")
	ret0, _ := ret[0].(error)
	return ret0
}

// Rollback indicates an expected call of Rollback.
func (mr *MockAcceptTxMockRecorder) Rollback() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rollback", reflect.TypeOf((*MockAcceptTx)(nil).Rollback))
}

// MockPartyDirectory is a mock of PartyDirectory interface.
type MockPartyDirectory struct {
	ctrl     *gomock.Controller
	recorder *MockPartyDirectoryMockRecorder
	isgomock struct{}
}

// MockPartyDirectoryMockRecorder is the mock recorder for MockPartyDirectory.
type MockPartyDirectoryMockRecorder struct {
	mock *MockPartyDirectory
}

// NewMockPartyDirectory creates a new mock instance.
func NewMockPartyDirectory(ctrl *gomock.Controller) *MockPartyDirectory {
	mock := &MockPartyDirectory{ctrl: ctrl}
	mock.recorder = &MockPartyDirectoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPartyDirectory) EXPECT() *MockPartyDirectoryMockRecorder {
	return m.recorder
}

// GetPartyByEmail mocks base method.
func (m *MockPartyDirectory) GetPartyByEmail(ctx context.Context, email string) (*party.Party, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPartyByEmail", ctx, email)
	ret0, _ := ret[0].(*party.Party)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetPartyByEmail indicates an expected call of GetPartyByEmail.
func (mr *MockPartyDirectoryMockRecorder) GetPartyByEmail(ctx, email any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPartyByEmail", reflect.TypeOf((*MockPartyDirectory)(nil).GetPartyByEmail), ctx, email)
}
