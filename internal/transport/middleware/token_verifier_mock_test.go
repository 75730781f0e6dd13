package middleware

import (
	"sync"

	"github.com/heartmarshall/wellnote-backend/internal/auth"
)

var _ tokenVerifier = &tokenVerifierMock{}

type tokenVerifierMock struct {
	VerifyFunc func(token string) (auth.Claims, error)

	calls struct {
		Verify []struct {
			Token string
		}
	}
	lockVerify sync.RWMutex
}

func (mock *tokenVerifierMock) Verify(token string) (auth.Claims, error) {
	if mock.VerifyFunc == nil {
		panic("tokenVerifierMock.VerifyFunc: method is nil but tokenVerifier.Verify was just called")
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, struct{ Token string }{token})
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(token)
}

func (mock *tokenVerifierMock) VerifyCalls() []struct{ Token string } {
	mock.lockVerify.RLock()
	defer mock.lockVerify.RUnlock()
	return mock.calls.Verify
}
