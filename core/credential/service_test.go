package credential_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goto/truora/core/credential"
	credentialmocks "github.com/goto/truora/core/credential/mocks"
	"github.com/goto/truora/domain"
	"github.com/goto/truora/mocks"
	"github.com/goto/truora/pkg/diff"
	"github.com/goto/truora/pkg/log"
	truoracreds "github.com/goto/truora/plugins/credentials/truora"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	mockRepository *credentialmocks.Repository
	mockCrypto     *mocks.Crypto
	mockHTTPClient *credentialmocks.HTTPClient
	mockAudit      *credentialmocks.AuditLogger
	service        *credential.Service
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) setup() {
	s.ctx = context.Background()
	s.mockRepository = new(credentialmocks.Repository)
	s.mockCrypto = new(mocks.Crypto)
	s.mockHTTPClient = new(credentialmocks.HTTPClient)
	s.mockAudit = new(credentialmocks.AuditLogger)
	s.service = s.newService(s.mockHTTPClient)
}

func (s *ServiceTestSuite) newService(client credential.HTTPClient) *credential.Service {
	return credential.NewService(credential.ServiceDeps{
		Repository:  s.mockRepository,
		Types:       []credential.Type{truoracreds.NewCredentialType(nil)},
		Crypto:      s.mockCrypto,
		HTTPClient:  client,
		AuditLogger: s.mockAudit,
		Logger:      log.NewNoop(),
	})
}

func (s *ServiceTestSuite) SetupTest() {
	s.setup()
}

func (s *ServiceTestSuite) TestGetType() {
	s.Run("should return registered type", func() {
		actual, err := s.service.GetType(truoracreds.TypeName)

		s.NoError(err)
		s.Equal(truoracreds.TypeName, actual.GetType())
	})

	s.Run("should return error on unknown type", func() {
		_, err := s.service.GetType("unknown")

		s.ErrorIs(err, domain.ErrCredentialTypeNotFound)
	})

	s.Run("should list descriptors", func() {
		actual := s.service.GetTypes()

		s.Require().Len(actual, 1)
		s.Equal("Truora API", actual[0].DisplayName)
	})
}

func (s *ServiceTestSuite) TestCreate() {
	s.Run("should return error if credential is invalid", func() {
		s.setup()
		testCases := []struct {
			name        string
			cred        *domain.Credential
			expectedErr error
		}{
			{"nil credential", nil, domain.ErrCredentialRequired},
			{"empty name", &domain.Credential{Type: truoracreds.TypeName}, domain.ErrInvalidCredentialRecord},
			{"unknown type", &domain.Credential{Name: "prod", Type: "unknown"}, domain.ErrCredentialTypeNotFound},
			{
				"missing api key",
				&domain.Credential{Name: "prod", Type: truoracreds.TypeName, Data: map[string]interface{}{}},
				domain.ErrInvalidCredentialRecord,
			},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				err := s.service.Create(s.ctx, tc.cred)

				s.ErrorIs(err, tc.expectedErr)
			})
		}
		s.mockRepository.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})

	s.Run("should encrypt secret fields and fill defaults before storing", func() {
		s.setup()
		cred := &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "secret-key"},
		}
		s.mockCrypto.EXPECT().Encrypt("secret-key").Return("encrypted-key", nil).Once()
		s.mockRepository.EXPECT().
			Create(mock.Anything, mock.AnythingOfType("*domain.Credential")).
			Run(func(_ context.Context, record *domain.Credential) {
				s.Equal("prod", record.Name)
				s.Equal("encrypted-key", record.Data["apiKey"])
				s.Equal(truoracreds.DefaultBaseURL, record.Data["baseUrl"])
				s.False(record.CreatedAt.IsZero())
			}).
			Return(nil).Once()
		s.mockAudit.EXPECT().
			Log(mock.Anything, credential.AuditKeyCreate, map[string]interface{}{"name": "prod", "type": truoracreds.TypeName}).
			Return(nil).Once()

		err := s.service.Create(s.ctx, cred)

		s.NoError(err)
		s.Equal("secret-key", cred.Data["apiKey"])
		s.mockCrypto.AssertExpectations(s.T())
		s.mockRepository.AssertExpectations(s.T())
		s.mockAudit.AssertExpectations(s.T())
	})

	s.Run("should return error if encryption fails", func() {
		s.setup()
		expectedErr := errors.New("encryption error")
		s.mockCrypto.EXPECT().Encrypt("secret-key").Return("", expectedErr).Once()

		err := s.service.Create(s.ctx, &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "secret-key"},
		})

		s.ErrorIs(err, expectedErr)
	})

	s.Run("should pass through repository error", func() {
		s.setup()
		s.mockCrypto.EXPECT().Encrypt(mock.Anything).Return("encrypted-key", nil).Once()
		s.mockRepository.EXPECT().Create(mock.Anything, mock.Anything).Return(domain.ErrDuplicateCredential).Once()

		err := s.service.Create(s.ctx, &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "secret-key"},
		})

		s.ErrorIs(err, domain.ErrDuplicateCredential)
	})
}

func (s *ServiceTestSuite) TestUpdate() {
	s.Run("should reject type change", func() {
		s.setup()
		s.mockRepository.EXPECT().GetByName(mock.Anything, "prod").
			Return(&domain.Credential{Name: "prod", Type: "other"}, nil).Once()

		err := s.service.Update(s.ctx, &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "new-key"},
		})

		s.ErrorIs(err, domain.ErrInvalidCredentialRecord)
	})

	s.Run("should store re-encrypted data and audit masked changelog", func() {
		s.setup()
		s.mockRepository.EXPECT().GetByName(mock.Anything, "prod").
			Return(&domain.Credential{
				Name: "prod",
				Type: truoracreds.TypeName,
				Data: map[string]interface{}{
					"apiKey":  "encrypted-old-key",
					"baseUrl": truoracreds.DefaultBaseURL,
				},
			}, nil).Once()
		s.mockCrypto.EXPECT().Decrypt("encrypted-old-key").Return("old-key", nil).Once()
		s.mockCrypto.EXPECT().Encrypt("new-key").Return("encrypted-new-key", nil).Once()
		s.mockRepository.EXPECT().
			Update(mock.Anything, mock.MatchedBy(func(c *domain.Credential) bool {
				return c.Data["apiKey"] == "encrypted-new-key" && !c.UpdatedAt.IsZero()
			})).
			Return(nil).Once()
		var changes []diff.PatchOp
		s.mockAudit.EXPECT().Log(mock.Anything, credential.AuditKeyUpdate, mock.Anything).
			Run(func(_ context.Context, _ string, data interface{}) {
				changes = data.(map[string]interface{})["changes"].([]diff.PatchOp)
			}).
			Return(nil).Once()

		err := s.service.Update(s.ctx, &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "new-key", "baseUrl": "https://api.validations.truora.com/v1"},
		})

		s.NoError(err)
		s.mockRepository.AssertExpectations(s.T())
		s.ElementsMatch([]diff.PatchOp{
			{Op: "replace", Path: "/apiKey", OldValue: "********", NewValue: "********"},
			{Op: "replace", Path: "/baseUrl", OldValue: truoracreds.DefaultBaseURL, NewValue: "https://api.validations.truora.com/v1"},
		}, changes)
	})
}

func (s *ServiceTestSuite) TestGet() {
	s.Run("should decrypt secret fields", func() {
		s.setup()
		s.mockRepository.EXPECT().GetByName(mock.Anything, "prod").Return(&domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{
				"apiKey":  "encrypted-key",
				"baseUrl": truoracreds.DefaultBaseURL,
			},
		}, nil).Once()
		s.mockCrypto.EXPECT().Decrypt("encrypted-key").Return("secret-key", nil).Once()

		actual, err := s.service.Get(s.ctx, "prod")

		s.NoError(err)
		s.Equal("secret-key", actual.Data["apiKey"])
		s.Equal(truoracreds.DefaultBaseURL, actual.Data["baseUrl"])
	})

	s.Run("should pass through not found error", func() {
		s.setup()
		s.mockRepository.EXPECT().GetByName(mock.Anything, "unknown").Return(nil, domain.ErrCredentialNotFound).Once()

		_, err := s.service.Get(s.ctx, "unknown")

		s.ErrorIs(err, domain.ErrCredentialNotFound)
	})

	s.Run("should return error if decryption fails", func() {
		s.setup()
		s.mockRepository.EXPECT().GetByName(mock.Anything, "prod").Return(&domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "garbage"},
		}, nil).Once()
		s.mockCrypto.EXPECT().Decrypt("garbage").Return("", errors.New("invalid encrypted value")).Once()

		_, err := s.service.Get(s.ctx, "prod")

		s.ErrorContains(err, "unable to decrypt credential")
	})
}

func (s *ServiceTestSuite) TestDelete() {
	s.Run("should delete and audit", func() {
		s.setup()
		s.mockRepository.EXPECT().Delete(mock.Anything, "prod").Return(nil).Once()
		s.mockAudit.EXPECT().Log(mock.Anything, credential.AuditKeyDelete, map[string]interface{}{"name": "prod"}).Return(nil).Once()

		err := s.service.Delete(s.ctx, "prod")

		s.NoError(err)
		s.mockAudit.AssertExpectations(s.T())
	})

	s.Run("should not fail when audit log fails", func() {
		s.setup()
		s.mockRepository.EXPECT().Delete(mock.Anything, "prod").Return(nil).Once()
		s.mockAudit.EXPECT().Log(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		err := s.service.Delete(s.ctx, "prod")

		s.NoError(err)
	})

	s.Run("should pass through not found error", func() {
		s.setup()
		s.mockRepository.EXPECT().Delete(mock.Anything, "unknown").Return(domain.ErrCredentialNotFound).Once()

		err := s.service.Delete(s.ctx, "unknown")

		s.ErrorIs(err, domain.ErrCredentialNotFound)
		s.mockAudit.AssertNotCalled(s.T(), "Log", mock.Anything, mock.Anything, mock.Anything)
	})
}

func (s *ServiceTestSuite) TestResolve() {
	s.Run("should produce exactly one authentication header", func() {
		s.setup()
		actual, err := s.service.Resolve(s.ctx, &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "K"},
		})

		s.NoError(err)
		s.Equal(map[string]string{"Truora-API-Key": "K"}, actual.Headers)
		s.Empty(actual.Query)
		s.Equal(truoracreds.DefaultBaseURL, actual.Data["baseUrl"])
	})
}

func (s *ServiceTestSuite) TestTest() {
	newCred := func(baseURL string) *domain.Credential {
		return &domain.Credential{
			Name: "prod",
			Type: truoracreds.TypeName,
			Data: map[string]interface{}{"apiKey": "K", "baseUrl": baseURL},
		}
	}

	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		status := status
		s.Run("should report valid on status "+http.StatusText(status), func() {
			var gotMethod, gotPath, gotKey string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath, gotKey = r.Method, r.URL.Path, r.Header.Get("Truora-API-Key")
				w.WriteHeader(status)
			}))
			defer server.Close()
			svc := s.newService(server.Client())

			actual, err := svc.Test(s.ctx, newCred(server.URL))

			s.NoError(err)
			s.True(actual.Valid)
			s.Equal(status, actual.StatusCode)
			s.Equal(http.MethodGet, gotMethod)
			s.Equal("/checks", gotPath)
			s.Equal("K", gotKey)
		})
	}

	s.Run("should report invalid credentials on unauthorized", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"message":"invalid api key"}`))
		}))
		defer server.Close()
		svc := s.newService(server.Client())

		actual, err := svc.Test(s.ctx, newCred(server.URL))

		s.ErrorIs(err, domain.ErrInvalidCredentials)
		var httpErr *domain.HTTPError
		s.Require().ErrorAs(err, &httpErr)
		s.Equal(http.StatusUnauthorized, httpErr.StatusCode)
		s.False(actual.Valid)
		s.Contains(actual.Message, "invalid api key")
	})

	s.Run("should report invalid credentials on other success codes", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()
		svc := s.newService(server.Client())

		actual, err := svc.Test(s.ctx, newCred(server.URL))

		s.ErrorIs(err, domain.ErrInvalidCredentials)
		s.False(actual.Valid)
	})

	s.Run("should return network error as is", func() {
		s.setup()
		expectedErr := errors.New("connection refused")
		s.mockHTTPClient.EXPECT().Do(mock.AnythingOfType("*http.Request")).Return(nil, expectedErr).Once()

		_, err := s.service.Test(s.ctx, newCred("https://api.checks.truora.com/v1"))

		s.ErrorIs(err, expectedErr)
		s.NotErrorIs(err, domain.ErrInvalidCredentials)
	})

	s.Run("should return error when response body cannot be read", func() {
		s.setup()
		expectedErr := errors.New("unexpected EOF")
		s.mockHTTPClient.EXPECT().Do(mock.AnythingOfType("*http.Request")).Return(&http.Response{
			StatusCode: http.StatusUnauthorized,
			Header:     http.Header{},
			Body:       io.NopCloser(&failingReader{err: expectedErr}),
		}, nil).Once()

		actual, err := s.service.Test(s.ctx, newCred("https://api.checks.truora.com/v1"))

		s.ErrorIs(err, expectedErr)
		s.ErrorContains(err, "reading response body")
		s.Nil(actual)
	})

	s.Run("should not send request for invalid credential data", func() {
		s.setup()

		_, err := s.service.Test(s.ctx, &domain.Credential{Name: "prod", Type: truoracreds.TypeName})

		s.ErrorIs(err, domain.ErrInvalidCredentialRecord)
		s.mockHTTPClient.AssertNotCalled(s.T(), "Do", mock.Anything)
	})
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}
