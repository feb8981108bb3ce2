package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapi/internal/model"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("fields and id", func(t *testing.T) {
		doc, err := DecodeJSON[model.Teacher]("abc", []byte(`{"name":"Grace","subject":"math","_id":"ignored"}`))
		require.NoError(t, err)
		assert.Equal(t, "abc", doc.ID)
		assert.Equal(t, "Grace", *doc.Name)
		assert.Equal(t, "math", *doc.Subject)
		assert.Nil(t, doc.Gender)
	})

	t.Run("empty document", func(t *testing.T) {
		doc, err := DecodeJSON[model.Student]("abc", nil)
		require.NoError(t, err)
		assert.Equal(t, "abc", doc.ID)
		assert.Nil(t, doc.Name)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := DecodeJSON[model.Student]("abc", []byte(`{"age":"old"}`))
		assert.Error(t, err)
	})
}
