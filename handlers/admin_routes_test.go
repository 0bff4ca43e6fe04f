package handlers

import (
	"testing"

	"coinrush/models"
	"coinrush/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "secret")

	db := newHandlerDB(t)
	admin := services.NewAdminService(db)
	require.NoError(t, admin.SetOperatorSession(true))

	app := fiber.New()
	SetupAdminRoutes(app, admin, services.NewCatalogService(db))
	return app, db
}

func TestAdminTaskUpdateSurfacesStoreFailure(t *testing.T) {
	app, db := newAdminApp(t)

	resp := doRequest(t, app, fiber.MethodPut, "/s/admin/tasks/missing", "1.2.3.4", `{"name":"X"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// a broken store must not masquerade as "not found"
	require.NoError(t, db.Migrator().DropTable(&models.Task{}))
	resp = doRequest(t, app, fiber.MethodPut, "/s/admin/tasks/missing", "1.2.3.4", `{"name":"X"}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestAdminRoutesRequireOperatorSession(t *testing.T) {
	app, db := newAdminApp(t)
	require.NoError(t, services.NewAdminService(db).SetOperatorSession(false))

	resp := doRequest(t, app, fiber.MethodGet, "/s/admin/stats", "1.2.3.4", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
