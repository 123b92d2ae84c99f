// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=repository_mock.go -package=party
//

// Package party is a generated GoMock package.
package party

import (
	context "context"
	reflect "reflect"

	uuid "github.com/google/uuid"
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

// CreateParty mocks base method.
func (m *MockRepository) CreateParty(ctx context.Context, p *Party) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateParty", ctx, p)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateParty indicates an expected call of CreateParty.
func (mr *MockRepositoryMockRecorder) CreateParty(ctx, p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateParty", reflect.TypeOf((*MockRepository)(nil).CreateParty), ctx, p)
}

// DeleteParty mocks base method.
func (m *MockRepository) DeleteParty(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteParty", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteParty indicates an expected call of DeleteParty.
func (mr *MockRepositoryMockRecorder) DeleteParty(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteParty", reflect.TypeOf((*MockRepository)(nil).DeleteParty), ctx, id)
}

// GetParty mocks base method.
func (m *MockRepository) GetParty(ctx context.Context, id uuid.UUID) (*Party, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetParty", ctx, id)
	ret0, _ := ret[0].(*Party)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetParty indicates an expected call of GetParty.
func (mr *MockRepositoryMockRecorder) GetParty(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetParty", reflect.TypeOf((*MockRepository)(nil).GetParty), ctx, id)
}

// GetPartyByEmail mocks base method.
func (m *MockRepository) GetPartyByEmail(ctx context.Context, email string) (*Party, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPartyByEmail", ctx, email)
	ret0, _ := ret[0].(*Party)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetPartyByEmail indicates an expected call of GetPartyByEmail.
func (mr *MockRepositoryMockRecorder) GetPartyByEmail(ctx, email any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPartyByEmail", reflect.TypeOf((*MockRepository)(nil).GetPartyByEmail), ctx, email)
}

// ListFlatmates mocks base method.
func (m *MockRepository) ListFlatmates(ctx context.Context, ownerID uuid.UUID) ([]*Party, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListFlatmates", ctx, ownerID)
	ret0, _ := ret[0].([]*Party)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListFlatmates indicates an expected call of ListFlatmates.
func (mr *MockRepositoryMockRecorder) ListFlatmates(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListFlatmates", reflect.TypeOf((*MockRepository)(nil).ListFlatmates), ctx, ownerID)
}

// UpdateParty mocks base method.
func (m *MockRepository) UpdateParty(ctx context.Context, p *Party) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateParty", ctx, p)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateParty indicates an expected call of UpdateParty.
func (mr *MockRepositoryMockRecorder) UpdateParty(ctx, p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateParty", reflect.TypeOf((*MockRepository)(nil).UpdateParty), ctx, p)
}

// UpdatePassword mocks base method.
func (m *MockRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdatePassword", ctx, id, passwordHash)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdatePassword indicates an expected call of UpdatePassword.
func (mr *MockRepositoryMockRecorder) UpdatePassword(ctx, id, passwordHash any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdatePassword", reflect.TypeOf((*MockRepository)(nil).UpdatePassword), ctx, id, passwordHash)
}

// MockHasher is a mock of Hasher interface.
type MockHasher struct {
	ctrl     *gomock.Controller
	recorder *MockHasherMockRecorder
	isgomock struct{}
}

// MockHasherMockRecorder is the mock recorder for MockHasher.
type MockHasherMockRecorder struct {
	mock *MockHasher
}

// NewMockHasher creates a new mock instance.
func NewMockHasher(ctrl *gomock.Controller) *MockHasher {
	mock := &MockHasher{ctrl: ctrl}
	mock.recorder = &MockHasherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHasher) EXPECT() *MockHasherMockRecorder {
	return m.recorder
}

// Compare mocks base method.
func (m *MockHasher) Compare(hash, password string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compare", hash, password)
	ret0, _ := ret[0].(error)
	return ret0
}

// Compare indicates an expected call of Compare.
func (mr *MockHasherMockRecorder) Compare(hash, password any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compare", reflect.TypeOf((*MockHasher)(nil).Compare), hash, password)
}

// Hash mocks base method.
func (m *MockHasher) Hash(password string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Hash", password)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Hash indicates an expected call of Hash.
func (mr *MockHasherMockRecorder) Hash(password any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hash", reflect.TypeOf((*MockHasher)(nil).Hash), password)
}
