package middleware

import (
	"errors"
	"testing"

	"lessonbook/internal/service"
	"lessonbook/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	tele "gopkg.in/telebot.v3"
)

// fakeContext records what the middleware sends back
type fakeContext struct {
	tele.Context
	sender *tele.User
	sent   []interface{}
}

func (c *fakeContext) Sender() *tele.User       { return c.sender }
func (c *fakeContext) Callback() *tele.Callback { return nil }
func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		authorized   bool
		ensureErr    error
		expectNext   bool
		expectedSent string
	}{
		{
			name:       "authorized user passes",
			authorized: true,
			expectNext: true,
		},
		{
			name:         "unauthorized user is asked for the password",
			authorized:   false,
			expectedSent: PasswordPrompt,
		},
		{
			name:         "store failure",
			ensureErr:    errors.New("db down"),
			expectedSent: "Something went wrong. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockUserRepository)
			mockRepo.On("EnsureUserExists", mock.Anything, int64(42)).Return(tt.ensureErr)
			if tt.ensureErr == nil {
				mockRepo.On("IsAuthorized", mock.Anything, int64(42)).Return(tt.authorized, nil)
			}

			authService := service.NewAuthService(mockRepo, "secret")
			called := false
			next := func(tele.Context) error {
				called = true
				return nil
			}

			c := &fakeContext{sender: &tele.User{ID: 42}}
			err := AuthMiddleware(authService, testutil.NewTestLogger())(next)(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectNext, called)
			if tt.expectedSent != "" {
				assert.Equal(t, []interface{}{tt.expectedSent}, c.sent)
			} else {
				assert.Empty(t, c.sent)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
