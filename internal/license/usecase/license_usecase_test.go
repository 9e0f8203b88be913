package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	databaseMocks "github.com/farmapp/licensing/internal/database/mocks"
	apperrors "github.com/farmapp/licensing/internal/errors"
	licenseDomain "github.com/farmapp/licensing/internal/license/domain"
	licenseService "github.com/farmapp/licensing/internal/license/service"
	serviceMocks "github.com/farmapp/licensing/internal/license/service/mocks"
	usecaseMocks "github.com/farmapp/licensing/internal/license/usecase/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type useCaseFixture struct {
	licenseRepo      *usecaseMocks.MockLicenseRepository
	activationRepo   *usecaseMocks.MockActivationRepository
	revokedTokenRepo *usecaseMocks.MockRevokedTokenRepository
	tokenAuthority   *serviceMocks.MockTokenAuthority
	useCase          LicenseUseCase
}

func newUseCaseFixture() *useCaseFixture {
	f := &useCaseFixture{
		licenseRepo:      &usecaseMocks.MockLicenseRepository{},
		activationRepo:   &usecaseMocks.MockActivationRepository{},
		revokedTokenRepo: &usecaseMocks.MockRevokedTokenRepository{},
		tokenAuthority:   &serviceMocks.MockTokenAuthority{},
	}
	f.useCase = NewLicenseUseCase(
		databaseMocks.FakeTxManager{},
		f.licenseRepo,
		f.activationRepo,
		f.revokedTokenRepo,
		f.tokenAuthority,
		"FA-",
	)
	return f
}

func activeLicense(key string, deviceLimit int) *licenseDomain.License {
	return &licenseDomain.License{
		ID:          uuid.Must(uuid.NewV7()),
		Key:         key,
		Customer:    "Customer",
		Plan:        "standard",
		DeviceLimit: deviceLimit,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestLicenseUseCase_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FirstActivation", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TEST-0001", 2)

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TEST-0001").Return(license, nil)
		f.activationRepo.On("ListByLicense", mock.Anything, license.ID).
			Return([]*licenseDomain.Activation{}, nil)
		f.tokenAuthority.On("Issue", licenseService.IssueTokenInput{
			HWID:     "hw-a",
			Customer: "Customer",
			Plan:     "standard",
		}).Return("signed-token", nil)
		f.activationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *licenseDomain.Activation) bool {
			return a.LicenseID == license.ID && a.HWID == "hw-a" && a.Token == "signed-token"
		})).Return(nil)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-TEST-0001",
			HWID:       "hw-a",
		})
		require.NoError(t, err)
		assert.Equal(t, "signed-token", output.Token)
		f.activationRepo.AssertExpectations(t)
	})

	t.Run("Success_SelfServiceCreatesLicense", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-NEW-0001").
			Return(nil, licenseDomain.ErrLicenseNotFound)
		f.licenseRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *licenseDomain.License) bool {
			return l.Key == "FA-NEW-0001" && l.Customer == licenseDomain.DefaultCustomer &&
				l.Plan == licenseDomain.DefaultPlan && l.DeviceLimit == 3 && l.IsActive
		})).Return(nil)
		f.activationRepo.On("ListByLicense", mock.Anything, mock.Anything).
			Return([]*licenseDomain.Activation{}, nil)
		f.tokenAuthority.On("Issue", mock.Anything).Return("signed-token", nil)
		f.activationRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey:  "FA-NEW-0001",
			HWID:        "hw-a",
			DeviceLimit: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "signed-token", output.Token)
		f.licenseRepo.AssertExpectations(t)
	})

	t.Run("Success_SelfServiceDeviceLimitFloorsAtOne", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-NEW-0002").
			Return(nil, licenseDomain.ErrLicenseNotFound)
		f.licenseRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *licenseDomain.License) bool {
			return l.DeviceLimit == 1
		})).Return(nil)
		f.activationRepo.On("ListByLicense", mock.Anything, mock.Anything).
			Return([]*licenseDomain.Activation{}, nil)
		f.tokenAuthority.On("Issue", mock.Anything).Return("signed-token", nil)
		f.activationRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		_, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-NEW-0002",
			HWID:       "hw-a",
		})
		require.NoError(t, err)
		f.licenseRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownKeyWithoutPrefix", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("GetByKey", mock.Anything, "XX-UNKNOWN").
			Return(nil, licenseDomain.ErrLicenseNotFound)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "XX-UNKNOWN",
			HWID:       "hw-a",
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, licenseDomain.ErrInvalidLicenseKey)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_InactiveLicense", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TEST-0002", 2)
		license.IsActive = false

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TEST-0002").Return(license, nil)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-TEST-0002",
			HWID:       "hw-a",
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, licenseDomain.ErrLicenseInactive)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Error_DeviceLimitReached", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TEST-0003", 2)

		existing := []*licenseDomain.Activation{
			{ID: uuid.Must(uuid.NewV7()), LicenseID: license.ID, HWID: "hw-a", Token: "token-a"},
			{ID: uuid.Must(uuid.NewV7()), LicenseID: license.ID, HWID: "hw-b", Token: "token-b"},
		}

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TEST-0003").Return(license, nil)
		f.activationRepo.On("ListByLicense", mock.Anything, license.ID).Return(existing, nil)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-TEST-0003",
			HWID:       "hw-c",
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, licenseDomain.ErrDeviceLimitReached)
	})

	t.Run("Success_ReactivationAtLimit", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TEST-0004", 2)

		existingID := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC().Add(-time.Hour)
		existing := []*licenseDomain.Activation{
			{ID: existingID, LicenseID: license.ID, HWID: "hw-a", Token: "token-old", CreatedAt: createdAt},
			{ID: uuid.Must(uuid.NewV7()), LicenseID: license.ID, HWID: "hw-b", Token: "token-b"},
		}

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TEST-0004").Return(license, nil)
		f.activationRepo.On("ListByLicense", mock.Anything, license.ID).Return(existing, nil)
		f.tokenAuthority.On("Issue", mock.Anything).Return("token-fresh", nil)
		// Re-activation keeps the row identity and creation time
		f.activationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *licenseDomain.Activation) bool {
			return a.ID == existingID && a.CreatedAt.Equal(createdAt) && a.Token == "token-fresh"
		})).Return(nil)

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-TEST-0004",
			HWID:       "hw-a",
		})
		require.NoError(t, err)
		assert.Equal(t, "token-fresh", output.Token)
		f.activationRepo.AssertExpectations(t)
	})

	t.Run("Error_TokenIssueFails", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TEST-0005", 2)

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TEST-0005").Return(license, nil)
		f.activationRepo.On("ListByLicense", mock.Anything, license.ID).
			Return([]*licenseDomain.Activation{}, nil)
		f.tokenAuthority.On("Issue", mock.Anything).Return("", errors.New("signing failed"))

		output, err := f.useCase.Activate(ctx, &licenseDomain.ActivateInput{
			LicenseKey: "FA-TEST-0005",
			HWID:       "hw-a",
		})
		assert.Nil(t, output)
		assert.Error(t, err)
	})
}

func TestLicenseUseCase_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ValidToken", func(t *testing.T) {
		f := newUseCaseFixture()

		f.revokedTokenRepo.On("IsRevoked", mock.Anything, "token").Return(false, nil)
		f.tokenAuthority.On("Verify", "token").Return(&licenseDomain.TokenClaims{HWID: "hw-a"}, nil)

		result, err := f.useCase.Verify(ctx, "token")
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Empty(t, result.Message)
	})

	t.Run("RevokedTokenFailsBeforeSignatureCheck", func(t *testing.T) {
		f := newUseCaseFixture()

		f.revokedTokenRepo.On("IsRevoked", mock.Anything, "token").Return(true, nil)

		result, err := f.useCase.Verify(ctx, "token")
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, "Revoked", result.Message)
		// The token authority must never be consulted for a revoked token
		f.tokenAuthority.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("FallbackAcceptsTokenPresentInStore", func(t *testing.T) {
		f := newUseCaseFixture()

		f.revokedTokenRepo.On("IsRevoked", mock.Anything, "opaque-token").Return(false, nil)
		f.tokenAuthority.On("Verify", "opaque-token").Return(nil, errors.New("token is malformed"))
		f.activationRepo.On("ExistsByToken", mock.Anything, "opaque-token").Return(true, nil)

		result, err := f.useCase.Verify(ctx, "opaque-token")
		require.NoError(t, err)
		assert.True(t, result.OK)
	})

	t.Run("InvalidTokenNotInStore", func(t *testing.T) {
		f := newUseCaseFixture()

		f.revokedTokenRepo.On("IsRevoked", mock.Anything, "garbage").Return(false, nil)
		f.tokenAuthority.On("Verify", "garbage").Return(nil, errors.New("token is malformed"))
		f.activationRepo.On("ExistsByToken", mock.Anything, "garbage").Return(false, nil)

		result, err := f.useCase.Verify(ctx, "garbage")
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, "Invalid token", result.Message)
	})

	t.Run("Error_DenylistLookupFails", func(t *testing.T) {
		f := newUseCaseFixture()

		f.revokedTokenRepo.On("IsRevoked", mock.Anything, "token").
			Return(false, errors.New("connection refused"))

		result, err := f.useCase.Verify(ctx, "token")
		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestLicenseUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesActivationAndRevokes", func(t *testing.T) {
		f := newUseCaseFixture()

		f.activationRepo.On("DeleteByToken", mock.Anything, "token").Return(nil)
		f.revokedTokenRepo.On("Revoke", mock.Anything, "token").Return(nil)

		err := f.useCase.Deactivate(ctx, "token")
		require.NoError(t, err)
		f.activationRepo.AssertExpectations(t)
		f.revokedTokenRepo.AssertExpectations(t)
	})

	t.Run("UnknownTokenSucceeds", func(t *testing.T) {
		f := newUseCaseFixture()

		f.activationRepo.On("DeleteByToken", mock.Anything, "unknown").Return(nil)
		f.revokedTokenRepo.On("Revoke", mock.Anything, "unknown").Return(nil)

		assert.NoError(t, f.useCase.Deactivate(ctx, "unknown"))
	})

	t.Run("Error_RevokeFails", func(t *testing.T) {
		f := newUseCaseFixture()

		f.activationRepo.On("DeleteByToken", mock.Anything, "token").Return(nil)
		f.revokedTokenRepo.On("Revoke", mock.Anything, "token").
			Return(errors.New("connection refused"))

		assert.Error(t, f.useCase.Deactivate(ctx, "token"))
	})
}

func TestLicenseUseCase_RevokeToken(t *testing.T) {
	f := newUseCaseFixture()

	f.activationRepo.On("DeleteByToken", mock.Anything, "token").Return(nil)
	f.revokedTokenRepo.On("Revoke", mock.Anything, "token").Return(nil)

	require.NoError(t, f.useCase.RevokeToken(context.Background(), "token"))
	f.revokedTokenRepo.AssertExpectations(t)
}

func TestLicenseUseCase_RemoveActivation(t *testing.T) {
	f := newUseCaseFixture()

	f.activationRepo.On("DeleteByToken", mock.Anything, "token").Return(nil)

	require.NoError(t, f.useCase.RemoveActivation(context.Background(), "token"))
	// Removing an activation must not denylist the token
	f.revokedTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestLicenseUseCase_CreateLicense(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaults", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *licenseDomain.License) bool {
			return l.Key == "FA-ADMIN-0001" && l.Customer == licenseDomain.DefaultCustomer &&
				l.Plan == licenseDomain.DefaultPlan && l.DeviceLimit == 1
		})).Return(nil)

		license, err := f.useCase.CreateLicense(ctx, &licenseDomain.CreateLicenseInput{
			Key:      "FA-ADMIN-0001",
			IsActive: true,
		})
		require.NoError(t, err)
		assert.True(t, license.IsActive)
		f.licenseRepo.AssertExpectations(t)
	})

	t.Run("Error_DuplicateKey", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("Create", mock.Anything, mock.Anything).
			Return(licenseDomain.ErrLicenseExists)

		license, err := f.useCase.CreateLicense(ctx, &licenseDomain.CreateLicenseInput{
			Key: "FA-DUP-0001",
		})
		assert.Nil(t, license)
		assert.ErrorIs(t, err, licenseDomain.ErrLicenseExists)
	})
}

func TestLicenseUseCase_SetLicenseActive(t *testing.T) {
	ctx := context.Background()

	t.Run("DisablesLicense", func(t *testing.T) {
		f := newUseCaseFixture()
		license := activeLicense("FA-TOGGLE-0001", 2)

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-TOGGLE-0001").Return(license, nil)
		f.licenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *licenseDomain.License) bool {
			return !l.IsActive
		})).Return(nil)

		updated, err := f.useCase.SetLicenseActive(ctx, "FA-TOGGLE-0001", false)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newUseCaseFixture()

		f.licenseRepo.On("GetByKey", mock.Anything, "FA-MISSING").
			Return(nil, licenseDomain.ErrLicenseNotFound)

		updated, err := f.useCase.SetLicenseActive(ctx, "FA-MISSING", true)
		assert.Nil(t, updated)
		assert.ErrorIs(t, err, licenseDomain.ErrLicenseNotFound)
	})
}

func TestLicenseUseCase_Stats(t *testing.T) {
	f := newUseCaseFixture()

	f.licenseRepo.On("List", mock.Anything).Return([]*licenseDomain.License{
		activeLicense("FA-STATS-0001", 1),
		activeLicense("FA-STATS-0002", 2),
	}, nil)
	f.activationRepo.On("List", mock.Anything).Return([]*licenseDomain.Activation{
		{ID: uuid.Must(uuid.NewV7()), HWID: "hw-a"},
	}, nil)
	f.revokedTokenRepo.On("Count", mock.Anything).Return(3, nil)

	stats, err := f.useCase.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Licenses)
	assert.Equal(t, 1, stats.Activations)
	assert.Equal(t, 3, stats.RevokedTokens)
}
