package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveRepository_JSON(t *testing.T) {
	t.Run("empty fields are null", func(t *testing.T) {
		data, err := json.Marshal(ActiveRepository{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"path":null,"url":null,"owner":null,"name":null}`, string(data))
	})

	t.Run("reads null and missing fields", func(t *testing.T) {
		var repo ActiveRepository
		require.NoError(t, json.Unmarshal([]byte(`{"path":"/tmp/x","url":null}`), &repo))
		assert.Equal(t, ActiveRepository{Path: "/tmp/x"}, repo)
	})

	t.Run("pointer marshals through value method", func(t *testing.T) {
		repo := &ActiveRepository{Path: "/tmp/x", URL: "https://github.com/o/r.git", Owner: "o", Name: "r"}
		data, err := json.Marshal(repo)
		require.NoError(t, err)
		assert.JSONEq(t, `{"path":"/tmp/x","url":"https://github.com/o/r.git","owner":"o","name":"r"}`, string(data))
	})
}

func TestActiveRepository_State(t *testing.T) {
	var none *ActiveRepository
	assert.False(t, none.IsActive())
	assert.False(t, none.HasCoordinates())

	repo := &ActiveRepository{Path: "/tmp/x"}
	assert.True(t, repo.IsActive())
	assert.False(t, repo.HasCoordinates())

	repo.Owner, repo.Name = "o", "r"
	assert.True(t, repo.HasCoordinates())
	assert.Equal(t, "o/r", repo.FullName())
}
