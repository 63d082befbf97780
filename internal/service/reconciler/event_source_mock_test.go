package reconciler

import (
	"sync"

	"github.com/heartmarshall/translation-desk/internal/adapter/eventchannel"
)

var _ eventSource = &eventSourceMock{}

type eventSourceMock struct {
	OnFunc          func(event string, fn eventchannel.Handler) eventchannel.Subscription
	OffFunc         func(sub eventchannel.Subscription)
	JoinClientFunc  func(clientID string)
	LeaveClientFunc func(clientID string)
	OnReconnectFunc func(fn func()) func()

	calls struct {
		On []struct {
			Event string
			Fn    eventchannel.Handler
		}
		Off []struct {
			Sub eventchannel.Subscription
		}
		JoinClient []struct {
			ClientID string
		}
		LeaveClient []struct {
			ClientID string
		}
		OnReconnect []struct {
			Fn func()
		}
	}
	lockOn          sync.RWMutex
	lockOff         sync.RWMutex
	lockJoinClient  sync.RWMutex
	lockLeaveClient sync.RWMutex
	lockOnReconnect sync.RWMutex
}

func (mock *eventSourceMock) On(event string, fn eventchannel.Handler) eventchannel.Subscription {
	if mock.OnFunc == nil {
		panic("eventSourceMock.OnFunc: method is nil but eventSource.On was just called")
	}
	callInfo := struct {
		Event string
		Fn    eventchannel.Handler
	}{Event: event, Fn: fn}
	mock.lockOn.Lock()
	mock.calls.On = append(mock.calls.On, callInfo)
	mock.lockOn.Unlock()
	return mock.OnFunc(event, fn)
}

func (mock *eventSourceMock) OnCalls() []struct {
	Event string
	Fn    eventchannel.Handler
} {
	mock.lockOn.RLock()
	calls := mock.calls.On
	mock.lockOn.RUnlock()
	return calls
}

func (mock *eventSourceMock) Off(sub eventchannel.Subscription) {
	if mock.OffFunc == nil {
		panic("eventSourceMock.OffFunc: method is nil but eventSource.Off was just called")
	}
	callInfo := struct {
		Sub eventchannel.Subscription
	}{Sub: sub}
	mock.lockOff.Lock()
	mock.calls.Off = append(mock.calls.Off, callInfo)
	mock.lockOff.Unlock()
	mock.OffFunc(sub)
}

func (mock *eventSourceMock) OffCalls() []struct {
	Sub eventchannel.Subscription
} {
	mock.lockOff.RLock()
	calls := mock.calls.Off
	mock.lockOff.RUnlock()
	return calls
}

func (mock *eventSourceMock) JoinClient(clientID string) {
	if mock.JoinClientFunc == nil {
		panic("eventSourceMock.JoinClientFunc: method is nil but eventSource.JoinClient was just called")
	}
	callInfo := struct {
		ClientID string
	}{ClientID: clientID}
	mock.lockJoinClient.Lock()
	mock.calls.JoinClient = append(mock.calls.JoinClient, callInfo)
	mock.lockJoinClient.Unlock()
	mock.JoinClientFunc(clientID)
}

func (mock *eventSourceMock) JoinClientCalls() []struct {
	ClientID string
} {
	mock.lockJoinClient.RLock()
	calls := mock.calls.JoinClient
	mock.lockJoinClient.RUnlock()
	return calls
}

func (mock *eventSourceMock) LeaveClient(clientID string) {
	if mock.LeaveClientFunc == nil {
		panic("eventSourceMock.LeaveClientFunc: method is nil but eventSource.LeaveClient was just called")
	}
	callInfo := struct {
		ClientID string
	}{ClientID: clientID}
	mock.lockLeaveClient.Lock()
	mock.calls.LeaveClient = append(mock.calls.LeaveClient, callInfo)
	mock.lockLeaveClient.Unlock()
	mock.LeaveClientFunc(clientID)
}

func (mock *eventSourceMock) LeaveClientCalls() []struct {
	ClientID string
} {
	mock.lockLeaveClient.RLock()
	calls := mock.calls.LeaveClient
	mock.lockLeaveClient.RUnlock()
	return calls
}

func (mock *eventSourceMock) OnReconnect(fn func()) func() {
	if mock.OnReconnectFunc == nil {
		panic("eventSourceMock.OnReconnectFunc: method is nil but eventSource.OnReconnect was just called")
	}
	callInfo := struct {
		Fn func()
	}{Fn: fn}
	mock.lockOnReconnect.Lock()
	mock.calls.OnReconnect = append(mock.calls.OnReconnect, callInfo)
	mock.lockOnReconnect.Unlock()
	return mock.OnReconnectFunc(fn)
}

func (mock *eventSourceMock) OnReconnectCalls() []struct {
	Fn func()
} {
	mock.lockOnReconnect.RLock()
	calls := mock.calls.OnReconnect
	mock.lockOnReconnect.RUnlock()
	return calls
}
