package loginsession_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-google-auth/server/loginsession"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	t.Run("round trips a login session", func(t *testing.T) {
		repo := loginsession.NewInMemoryRepo()
		stored := loginsession.Session{
			SerializedPrincipal: `{"Google":"{\"subClaim\":\"123\"}"}`,
			CreatedAt:           time.Now(),
		}
		require.NoError(t, repo.Upsert("s1", stored))

		got, err := repo.Get("s1")
		require.NoError(t, err)
		require.Equal(t, stored, *got)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		repo := loginsession.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("s1", loginsession.Session{SerializedPrincipal: "x"}))
		require.NoError(t, repo.Delete("s1"))

		_, err := repo.Get("s1")
		require.Error(t, err)
	})

	t.Run("validates inputs", func(t *testing.T) {
		repo := loginsession.NewInMemoryRepo()
		require.Error(t, repo.Upsert("", loginsession.Session{}))
		_, err := repo.Get("")
		require.Error(t, err)
		require.Error(t, repo.Delete(""))
	})
}
