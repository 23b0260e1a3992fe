package repository

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemart/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	body, identifier, err := src.ReadUp(next)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "product_embeddings", identifier)
}

func TestRunMigrations_InvalidURL(t *testing.T) {
	_, err := RunMigrations("not-a-url")
	assert.Error(t, err)
}
