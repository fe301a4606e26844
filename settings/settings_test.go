package settings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/settings"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/storage"
)

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		p, err := settings.NewService(storage.NewMemoryStore()).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.Defaults(), p)
		assert.True(t, p.SoundEnabled)
		assert.True(t, p.MusicEnabled)
		assert.Equal(t, settings.ThemeLight, p.Theme)
		assert.Equal(t, 10, p.ConfigurableTotalRounds)
	})

	t.Run("malformed values fall back per key", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Save(ctx, settings.KeySound, []byte("false")))
		require.NoError(t, store.Save(ctx, settings.KeyMusic, []byte("{oops")))
		require.NoError(t, store.Save(ctx, settings.KeyTheme, []byte(`"neon"`)))
		require.NoError(t, store.Save(ctx, settings.KeyRounds, []byte(`"many"`)))

		p, err := settings.NewService(store).Load(ctx)
		require.NoError(t, err)
		assert.False(t, p.SoundEnabled)
		assert.True(t, p.MusicEnabled)
		assert.Equal(t, settings.ThemeLight, p.Theme)
		assert.Equal(t, settings.DefaultRounds, p.ConfigurableTotalRounds)
	})
}

func TestSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := settings.NewService(storage.NewMemoryStore())

	want := settings.Preferences{SoundEnabled: false, MusicEnabled: true, Theme: settings.ThemeDark, ConfigurableTotalRounds: 6}
	require.NoError(t, svc.Save(ctx, want))

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	bad := want
	bad.Theme = "purple"
	assert.ErrorIs(t, svc.Save(ctx, bad), settings.ErrInvalidTheme)

	bad = want
	bad.ConfigurableTotalRounds = 0
	assert.ErrorIs(t, svc.Save(ctx, bad), domain.ErrInvalidRounds)
}

func TestRoundsAndTheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := settings.NewService(storage.NewMemoryStore())

	rounds, err := svc.LoadRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultRounds, rounds)

	require.NoError(t, svc.SaveRounds(ctx, 3))
	rounds, err = svc.LoadRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, rounds)
	assert.ErrorIs(t, svc.SaveRounds(ctx, -1), domain.ErrInvalidRounds)

	p, err := svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, p.Theme)
	p, err = svc.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, p.Theme)
}

func TestHandler(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	settings.NewHandler(settings.NewService(storage.NewMemoryStore())).Register(router.Group("/settings"))

	do := func(method, body string, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		return res
	}

	res := do(http.MethodGet, "", "/settings")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"soundEnabled":true,"musicEnabled":true,"theme":"light","configurableTotalRounds":10}`, res.Body.String())

	res = do(http.MethodPut, `{"soundEnabled":false,"musicEnabled":false,"theme":"dark","configurableTotalRounds":4}`, "/settings")
	require.Equal(t, http.StatusOK, res.Code)

	res = do(http.MethodPut, `{"musicEnabled":true}`, "/settings")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.JSONEq(t, `{"soundEnabled":false,"musicEnabled":true,"theme":"dark","configurableTotalRounds":4}`, res.Body.String())

	res = do(http.MethodPut, `{"theme":"dark","configurableTotalRounds":0}`, "/settings")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, domain.ErrInvalidRounds.Error(), res.Body.String())

	res = do(http.MethodPut, `[]`, "/settings")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(http.MethodPost, "", "/settings/theme/toggle")
	require.Equal(t, http.StatusOK, res.Code)
	var p settings.Preferences
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &p))
	assert.Equal(t, settings.ThemeLight, p.Theme)
	assert.False(t, p.SoundEnabled)
	assert.True(t, p.MusicEnabled)
	assert.Equal(t, 4, p.ConfigurableTotalRounds)
}
