/*
 *
 * Copyright 2019 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// gomock-based fakes of Channel and ChannelBuilder, hand-authored in the
// style of mockgen output (the generator itself is not run here; there is
// no .proto or go:generate source for these two small interfaces to drive
// it from). Lives in the affinitypool package itself (rather than an
// importable mocks package) so these test-only types can't form an import
// cycle with the package's own internal tests.
package affinitypool

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
	"google.golang.org/grpc/connectivity"
)

var _ Channel = (*MockChannel)(nil)
var _ ChannelBuilder = (*MockChannelBuilder)(nil)

// MockChannel is a gomock-driven fake of Channel.
type MockChannel struct {
	ctrl     *gomock.Controller
	recorder *MockChannelMockRecorder
}

// MockChannelMockRecorder records expected calls on a MockChannel.
type MockChannelMockRecorder struct {
	mock *MockChannel
}

// NewMockChannel returns a new MockChannel controlled by ctrl.
func NewMockChannel(ctrl *gomock.Controller) *MockChannel {
	mock := &MockChannel{ctrl: ctrl}
	mock.recorder = &MockChannelMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockChannel) EXPECT() *MockChannelMockRecorder {
	return m.recorder
}

func (m *MockChannel) Shutdown() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Shutdown")
}

func (mr *MockChannelMockRecorder) Shutdown() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Shutdown", reflect.TypeOf((*MockChannel)(nil).Shutdown))
}

func (m *MockChannel) ShutdownNow() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ShutdownNow")
}

func (mr *MockChannelMockRecorder) ShutdownNow() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ShutdownNow", reflect.TypeOf((*MockChannel)(nil).ShutdownNow))
}

func (m *MockChannel) IsShutdown() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsShutdown")
	return ret[0].(bool)
}

func (mr *MockChannelMockRecorder) IsShutdown() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsShutdown", reflect.TypeOf((*MockChannel)(nil).IsShutdown))
}

func (m *MockChannel) IsTerminated() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsTerminated")
	return ret[0].(bool)
}

func (mr *MockChannelMockRecorder) IsTerminated() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsTerminated", reflect.TypeOf((*MockChannel)(nil).IsTerminated))
}

func (m *MockChannel) AwaitTermination(ctx context.Context) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AwaitTermination", ctx)
	return ret[0].(bool)
}

func (mr *MockChannelMockRecorder) AwaitTermination(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AwaitTermination", reflect.TypeOf((*MockChannel)(nil).AwaitTermination), ctx)
}

func (m *MockChannel) GetState(requestConnection bool) connectivity.State {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetState", requestConnection)
	return ret[0].(connectivity.State)
}

func (mr *MockChannelMockRecorder) GetState(requestConnection interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetState", reflect.TypeOf((*MockChannel)(nil).GetState), requestConnection)
}

func (m *MockChannel) Authority() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Authority")
	return ret[0].(string)
}

func (mr *MockChannelMockRecorder) Authority() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Authority", reflect.TypeOf((*MockChannel)(nil).Authority))
}

// MockChannelBuilder is a gomock-driven fake of ChannelBuilder.
type MockChannelBuilder struct {
	ctrl     *gomock.Controller
	recorder *MockChannelBuilderMockRecorder
}

// MockChannelBuilderMockRecorder records expected calls on a
// MockChannelBuilder.
type MockChannelBuilderMockRecorder struct {
	mock *MockChannelBuilder
}

// NewMockChannelBuilder returns a new MockChannelBuilder controlled by ctrl.
func NewMockChannelBuilder(ctrl *gomock.Controller) *MockChannelBuilder {
	mock := &MockChannelBuilder{ctrl: ctrl}
	mock.recorder = &MockChannelBuilderMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockChannelBuilder) EXPECT() *MockChannelBuilderMockRecorder {
	return m.recorder
}

func (m *MockChannelBuilder) Build() (Channel, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Build")
	ch, _ := ret[0].(Channel)
	err, _ := ret[1].(error)
	return ch, err
}

func (mr *MockChannelBuilderMockRecorder) Build() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Build", reflect.TypeOf((*MockChannelBuilder)(nil).Build))
}
