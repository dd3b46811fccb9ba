package store

import (
	"context"

	perrors "github.com/inventario/inventario/product_service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// contractSuite holds the behaviour every ProductStore implementation must show.
// Concrete suites embed it and assign store before each test.
type contractSuite struct {
	suite.Suite
	ctx   context.Context
	store ProductStore
}

func playstation() Product {
	return Product{ID: 1, Active: true, Name: "Playstation 3", Price: 1200, Stock: 10, Brand: "Sony"}
}

// createTestProduct is a helper function to create a product for testing purposes.
func (s *contractSuite) createTestProduct(p Product) *Product {
	s.T().Helper()
	created, err := s.store.Save(s.ctx, p)
	require.NoError(s.T(), err, "createTestProduct helper failed to create product")
	return created
}

func (s *contractSuite) TestSaveAndFindByID() {
	// given
	created := s.createTestProduct(playstation())

	// when
	fetched, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), fetched.ID)
	assert.True(s.T(), fetched.Active)
	assert.Equal(s.T(), "Playstation 3", fetched.Name)
	assert.Equal(s.T(), int64(1200), fetched.Price)
	assert.Equal(s.T(), int32(10), fetched.Stock)
	assert.Equal(s.T(), "Sony", fetched.Brand)
	assert.False(s.T(), fetched.CreatedAt.IsZero(), "CreatedAt should be set")
	assert.Nil(s.T(), fetched.DeletedAt)
}

func (s *contractSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, 99)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *contractSuite) TestSave_DuplicateID() {
	// given
	s.createTestProduct(playstation())

	// when
	dup := playstation()
	dup.Name = "Another"
	_, err := s.store.Save(s.ctx, dup)

	// then
	require.ErrorIs(s.T(), err, perrors.ErrProductExists)
	fetched, err := s.store.FindByID(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Playstation 3", fetched.Name, "Existing product must be untouched")
}

func (s *contractSuite) TestExistsByID() {
	s.createTestProduct(playstation())

	exists, err := s.store.ExistsByID(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)

	exists, err = s.store.ExistsByID(s.ctx, 2)
	require.NoError(s.T(), err)
	assert.False(s.T(), exists)
}

func (s *contractSuite) TestFindAll_OrderedByID() {
	// given
	for _, id := range []int64{3, 1, 2} {
		p := playstation()
		p.ID = id
		s.createTestProduct(p)
	}

	// when
	products, err := s.store.FindAll(s.ctx)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), products, 3)
	assert.Equal(s.T(), []int64{1, 2, 3}, ids(products))
}

func (s *contractSuite) TestFindAll_Empty() {
	products, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), products)
}

func (s *contractSuite) TestFindAllByID_Partial() {
	// given
	for _, id := range []int64{1, 2, 5} {
		p := playstation()
		p.ID = id
		s.createTestProduct(p)
	}

	// when
	products, err := s.store.FindAllByID(s.ctx, []int64{5, 1, 42, 5})

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []int64{1, 5}, ids(products))
}

func (s *contractSuite) TestUpdate() {
	// given
	s.createTestProduct(playstation())
	changed := playstation()
	changed.Name = "Playstation 3 Pro"
	changed.Stock = 3

	// when
	updated, err := s.store.Update(s.ctx, 1, changed)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), updated.ID)
	assert.Equal(s.T(), "Playstation 3 Pro", updated.Name)
	assert.Equal(s.T(), int32(3), updated.Stock)
	fetched, err := s.store.FindByID(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Playstation 3 Pro", fetched.Name)
}

func (s *contractSuite) TestUpdate_NotFound() {
	_, err := s.store.Update(s.ctx, 99, playstation())
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
}

func (s *contractSuite) TestDeleteByID_SoftDelete() {
	// given
	s.createTestProduct(playstation())

	// when
	err := s.store.DeleteByID(s.ctx, 1)

	// then
	require.NoError(s.T(), err)
	_, err = s.store.FindByID(s.ctx, 1)
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	exists, err := s.store.ExistsByID(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.False(s.T(), exists)
	all, err := s.store.FindAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), all)
	byID, err := s.store.FindAllByID(s.ctx, []int64{1})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), byID)
	_, err = s.store.Update(s.ctx, 1, playstation())
	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	require.ErrorIs(s.T(), s.store.DeleteByID(s.ctx, 1), perrors.ErrProductNotFound, "Second delete must report not found")
}

func (s *contractSuite) TestSave_ReusesDeletedID() {
	// given
	s.createTestProduct(playstation())
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, 1))

	// when
	revived := playstation()
	revived.Name = "Playstation 4"
	saved, err := s.store.Save(s.ctx, revived)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Playstation 4", saved.Name)
	fetched, err := s.store.FindByID(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Playstation 4", fetched.Name)
	assert.Nil(s.T(), fetched.DeletedAt)
}

func (s *contractSuite) TestDeleteByID_NotFound() {
	require.ErrorIs(s.T(), s.store.DeleteByID(s.ctx, 99), perrors.ErrProductNotFound)
}

func (s *contractSuite) TestPing() {
	require.NoError(s.T(), s.store.Ping(s.ctx))
}

func ids(products []Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
