package access_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

type profileRepoMock struct{ mock.Mock }

func (m *profileRepoMock) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Profile)
	return p, args.Error(1)
}

func (m *profileRepoMock) GetAccessProjection(ctx context.Context, id string) (*entity.AccessProjection, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.AccessProjection)
	return p, args.Error(1)
}

func (m *profileRepoMock) Upsert(ctx context.Context, profile *entity.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type companyRepoMock struct{ mock.Mock }

func (m *companyRepoMock) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Company)
	return c, args.Error(1)
}

type directoryMock struct{ mock.Mock }

func (m *directoryMock) GetIdentity(ctx context.Context, id string) (*entity.Identity, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*entity.Identity)
	return i, args.Error(1)
}

func (m *directoryMock) MirrorAccess(ctx context.Context, id string, mirror entity.AccessMirror) error {
	return m.Called(ctx, id, mirror).Error(0)
}
