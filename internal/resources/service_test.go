package resources

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

func TestListResourcesBuildsTree(t *testing.T) {
	repo, c := seed(t)
	svc, err := NewService(repo)
	require.NoError(t, err)

	tree, err := svc.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, c.Villa, tree[0].ID)
	assert.Len(t, tree[0].Children, 3)
}

func TestListConfigurationsOrderedByPrice(t *testing.T) {
	repo, _ := seed(t)
	svc, err := NewService(repo)
	require.NoError(t, err)

	cfgs, err := svc.ListConfigurations(context.Background())
	require.NoError(t, err)
	require.Len(t, cfgs, 3)
	assert.Equal(t, "single-rooms", cfgs[0].Slug)
	assert.Equal(t, "3bhk-villa", cfgs[1].Slug)
	assert.Equal(t, "entire-villa", cfgs[2].Slug)
	assert.Len(t, cfgs[2].ResourceIDs, 1)
}

func TestCreateResourceRejectsThirdLevel(t *testing.T) {
	repo, c := seed(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateResource(ctx, CreateResourceInput{Name: "Closet", Slug: "closet", NightlyRate: decimal.NewFromInt(10), ParentID: &c.RoomGarden})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	_, err = svc.CreateResource(ctx, CreateResourceInput{Name: "Shed", Slug: "shed", ParentID: &missing})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	room, err := svc.CreateResource(ctx, CreateResourceInput{Name: "Attic", Slug: "Villa-Attic", NightlyRate: decimal.NewFromInt(900), ParentID: &c.Villa})
	require.NoError(t, err)
	assert.Equal(t, "villa-attic", room.Slug)

	set, err := newResolver(t, repo).ResolveConflictSet(ctx, nil, c.Villa)
	require.NoError(t, err)
	assert.Contains(t, set, room.ID)
}

func TestCreateResourceDuplicateSlug(t *testing.T) {
	repo, _ := seed(t)
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.CreateResource(context.Background(), CreateResourceInput{Name: "Villa again", Slug: "villa"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateConfigurationValidation(t *testing.T) {
	repo, c := seed(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateConfiguration(ctx, CreateConfigurationInput{Slug: "none", Label: "None", PricePerNight: decimal.NewFromInt(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateConfiguration(ctx, CreateConfigurationInput{Slug: "ghost", Label: "Ghost", ResourceIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	created, err := svc.CreateConfiguration(ctx, CreateConfigurationInput{
		Slug:          "garden-and-terrace",
		Label:         "Garden and terrace rooms",
		PricePerNight: decimal.NewFromInt(2800),
		ResourceIDs:   []uuid.UUID{c.RoomGarden, c.RoomTerrace, c.RoomGarden},
	})
	require.NoError(t, err)
	assert.Len(t, created.ResourceIDs, 2)

	_, err = svc.CreateConfiguration(ctx, CreateConfigurationInput{Slug: "garden-and-terrace", Label: "dup", ResourceIDs: []uuid.UUID{c.RoomGarden}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
