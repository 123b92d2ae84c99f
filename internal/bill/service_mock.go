// Code generated by MockGen. DO NOT EDIT.
// Source: service.go
//
// Generated by this command:
//
//	mockgen -source=service.go -destination=service_mock.go -package=bill
//

// Package bill is a generated GoMock package.
package bill

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

// BeginCreate mocks base method.
func (m *MockRepository) BeginCreate(ctx context.Context) (CreateTx, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginCreate", ctx)
	ret0, _ := ret[0].(CreateTx)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BeginCreate indicates an expected call of BeginCreate.
func (mr *MockRepositoryMockRecorder) BeginCreate(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginCreate", reflect.TypeOf((*MockRepository)(nil).BeginCreate), ctx)
}

// DeleteBill mocks base method.
func (m *MockRepository) DeleteBill(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteBill", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteBill indicates an expected call of DeleteBill.
func (mr *MockRepositoryMockRecorder) DeleteBill(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteBill", reflect.TypeOf((*MockRepository)(nil).DeleteBill), ctx, id)
}

// GetBill mocks base method.
func (m *MockRepository) GetBill(ctx context.Context, id uuid.UUID) (*Bill, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBill", ctx, id)
	ret0, _ := ret[0].(*Bill)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBill indicates an expected call of GetBill.
func (mr *MockRepositoryMockRecorder) GetBill(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBill", reflect.TypeOf((*MockRepository)(nil).GetBill), ctx, id)
}

// ListBills mocks base method.
func (m *MockRepository) ListBills(ctx context.Context, ownerID uuid.UUID) ([]*Bill, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBills", ctx, ownerID)
	ret0, _ := ret[0].([]*Bill)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListBills indicates an expected call of ListBills.
func (mr *MockRepositoryMockRecorder) ListBills(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBills", reflect.TypeOf((*MockRepository)(nil).ListBills), ctx, ownerID)
}

// ListFlatmateBills mocks base method.
func (m *MockRepository) ListFlatmateBills(ctx context.Context, partyID uuid.UUID) ([]*FlatmateBill, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListFlatmateBills", ctx, partyID)
	ret0, _ := ret[0].([]*FlatmateBill)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListFlatmateBills indicates an expected call of ListFlatmateBills.
func (mr *MockRepositoryMockRecorder) ListFlatmateBills(ctx, partyID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListFlatmateBills", reflect.TypeOf((*MockRepository)(nil).ListFlatmateBills), ctx, partyID)
}

// MockCreateTx is a mock of CreateTx interface.
type MockCreateTx struct {
	ctrl     *gomock.Controller
	recorder *MockCreateTxMockRecorder
	isgomock struct{}
}

// MockCreateTxMockRecorder is the mock recorder for MockCreateTx.
type MockCreateTxMockRecorder struct {
	mock *MockCreateTx
}

// NewMockCreateTx creates a new mock instance.
func NewMockCreateTx(ctrl *gomock.Controller) *MockCreateTx {
	mock := &MockCreateTx{ctrl: ctrl}
	mock.recorder = &MockCreateTxMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCreateTx) EXPECT() *MockCreateTxMockRecorder {
	return m.recorder
}

// Commit mocks base method.
func (m *MockCreateTx) Commit() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit")
	ret0, _ := ret[0].(error)
	return ret0
}

// Commit indicates an expected call of Commit.
func (mr *MockCreateTxMockRecorder) Commit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockCreateTx)(nil).Commit))
}

// CreateBill mocks base method.
func (m *MockCreateTx) CreateBill(ctx context.Context, b *Bill) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateBill", ctx, b)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateBill indicates an expected call of CreateBill.
func (mr *MockCreateTxMockRecorder) CreateBill(ctx, b any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateBill", reflect.TypeOf((*MockCreateTx)(nil).CreateBill), ctx, b)
}

// Rollback mocks base method.
func (m *MockCreateTx) Rollback() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rollback")
	ret0, _ := ret[0].(error)
	return ret0
}

// Rollback indicates an expected call of Rollback.
func (mr *MockCreateTxMockRecorder) Rollback() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rollback", reflect.TypeOf((*MockCreateTx)(nil).Rollback))
}

// MockNotifier is a mock of Notifier interface.
type MockNotifier struct {
	ctrl     *gomock.Controller
	recorder *MockNotifierMockRecorder
	isgomock struct{}
}

// MockNotifierMockRecorder is the mock recorder for MockNotifier.
type MockNotifierMockRecorder struct {
	mock *MockNotifier
}

// NewMockNotifier creates a new mock instance.
func NewMockNotifier(ctrl *gomock.Controller) *MockNotifier {
	mock := &MockNotifier{ctrl: ctrl}
	mock.recorder = &MockNotifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNotifier) EXPECT() *MockNotifierMockRecorder {
	return m.recorder
}

// Send mocks base method.
func (m *MockNotifier) Send(ctx context.Context, recipientEmail, recipientName, subject, body string, document []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Send", ctx, recipientEmail, recipientName, subject, body, document)
	ret0, _ := ret[0].(error)
	return ret0
}

// Send indicates an expected call of Send.
func (mr *MockNotifierMockRecorder) Send(ctx, recipientEmail, recipientName, subject, body, document any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Send", reflect.TypeOf((*MockNotifier)(nil).Send), ctx, recipientEmail, recipientName, subject, body, document)
}

// MockRenderer is a mock of Renderer interface.
type MockRenderer struct {
	ctrl     *gomock.Controller
	recorder *MockRendererMockRecorder
	isgomock struct{}
}

// MockRendererMockRecorder is the mock recorder for MockRenderer.
type MockRendererMockRecorder struct {
	mock *MockRenderer
}

// NewMockRenderer creates a new mock instance.
func NewMockRenderer(ctrl *gomock.Controller) *MockRenderer {
	mock := &MockRenderer{ctrl: ctrl}
	mock.recorder = &MockRendererMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRenderer) EXPECT() *MockRendererMockRecorder {
	return m.recorder
}

// RenderBill mocks base method.
func (m *MockRenderer) RenderBill(b *Bill, recipientName string) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RenderBill", b, recipientName)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RenderBill indicates an expected call of RenderBill.
func (mr *MockRendererMockRecorder) RenderBill(b, recipientName any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RenderBill", reflect.TypeOf((*MockRenderer)(nil).RenderBill), b, recipientName)
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

// GetParty mocks base method.
func (m *MockPartyDirectory) GetParty(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetParty", ctx, id)
	ret0, _ := ret[0].(*party.Party)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetParty indicates an expected call of GetParty.
func (mr *MockPartyDirectoryMockRecorder) GetParty(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetParty", reflect.TypeOf((*MockPartyDirectory)(nil).GetParty), ctx, id)
}
