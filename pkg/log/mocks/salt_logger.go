// Code generated manually. DO NOT EDIT.

package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// SaltLogger is a manual mock type for the salt log.Logger interface
type SaltLogger struct {
	mock.Mock
}

type SaltLogger_Expecter struct {
	mock *mock.Mock
}

func (_m *SaltLogger) EXPECT() *SaltLogger_Expecter {
	return &SaltLogger_Expecter{mock: &_m.Mock}
}

func (_m *SaltLogger) Debug(msg string, args ...interface{}) {
	_m.Called(msg, args)
}

func (_m *SaltLogger) Info(msg string, args ...interface{}) {
	_m.Called(msg, args)
}

func (_m *SaltLogger) Warn(msg string, args ...interface{}) {
	_m.Called(msg, args)
}

func (_m *SaltLogger) Error(msg string, args ...interface{}) {
	_m.Called(msg, args)
}

func (_m *SaltLogger) Fatal(msg string, args ...interface{}) {
	_m.Called(msg, args)
}

// Level provides a mock function with given fields:
func (_m *SaltLogger) Level() string {
	ret := _m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.String(0)
	}
	return r0
}

// Writer provides a mock function with given fields:
func (_m *SaltLogger) Writer() io.Writer {
	ret := _m.Called()

	var r0 io.Writer
	if rf, ok := ret.Get(0).(func() io.Writer); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.Writer)
	}
	return r0
}

// SaltLogger_Call is a *mock.Call that shadows Run/Return methods with type explicit version
type SaltLogger_Call struct {
	*mock.Call
}

func (_e *SaltLogger_Expecter) Debug(msg interface{}, args interface{}) *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Debug", msg, args)}
}

func (_e *SaltLogger_Expecter) Info(msg interface{}, args interface{}) *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Info", msg, args)}
}

func (_e *SaltLogger_Expecter) Warn(msg interface{}, args interface{}) *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Warn", msg, args)}
}

func (_e *SaltLogger_Expecter) Error(msg interface{}, args interface{}) *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Error", msg, args)}
}

func (_e *SaltLogger_Expecter) Fatal(msg interface{}, args interface{}) *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Fatal", msg, args)}
}

func (_e *SaltLogger_Expecter) Level() *SaltLogger_Call {
	return &SaltLogger_Call{Call: _e.mock.On("Level")}
}

func (_c *SaltLogger_Call) Once() *SaltLogger_Call {
	_c.Call.Once()
	return _c
}

func (_c *SaltLogger_Call) Return(returnArguments ...interface{}) *SaltLogger_Call {
	_c.Call.Return(returnArguments...)
	return _c
}
