// Package router sets up the HTTP routes for the qooqz admin API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/http/handler"
	"github.com/ibdaa1/qooqz/internal/http/middleware"
	"github.com/ibdaa1/qooqz/pkg"
)

// Deps are the handlers and settings the router wires together.
type Deps struct {
	Health          *handler.HealthHandler
	Entities        *handler.EntityHandler
	Attributes      *handler.AttributeHandler
	AttributeValues *handler.AttributeValueHandler
	Settings        *handler.EntitySettingHandler
	// SessionSecret verifies session cookies on tenant-scoped routes.
	SessionSecret string
}

// NewRouter initializes the Gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RequestLogger(), middleware.Recovery())

	if d.Health != nil {
		r.GET(pkg.LivenessPath, d.Health.Liveness)
		r.GET(pkg.ReadinessPath, d.Health.Readiness)
	}

	r.GET(pkg.HealthCheckPath, handler.Ping)
	api := r.Group(pkg.BasePath)

	// attribute declarations are shared by every tenant
	attrs := api.Group("/attributes")
	attrs.GET("", d.Attributes.List)
	attrs.POST("", d.Attributes.Create)
	attrs.GET("/by-name/:entity_type/:name", d.Attributes.GetByName)
	attrs.GET("/:id", d.Attributes.Get)
	attrs.PUT("/:id", d.Attributes.Update)
	attrs.DELETE("/:id", d.Attributes.Delete)
	attrs.GET("/:id/translations", d.Attributes.Translations)
	attrs.PUT("/:id/translations/:lang", d.Attributes.SetTranslation)
	attrs.DELETE("/:id/values", d.AttributeValues.DeleteAttributeValues)

	scoped := api.Group("", middleware.Tenant(d.SessionSecret))

	entities := scoped.Group("/entities")
	entities.GET("", d.Entities.List)
	entities.POST("", d.Entities.Create)
	entities.GET("/:id", d.Entities.Get)
	entities.PUT("/:id", d.Entities.Update)
	entities.DELETE("/:id", d.Entities.Delete)
	entities.GET("/:id/validate-parent", d.Entities.ValidateParent)

	entities.GET("/:id/attributes", d.AttributeValues.EntityValues)
	entities.POST("/:id/attributes", d.AttributeValues.SaveEntityValues)
	entities.DELETE("/:id/attributes", d.AttributeValues.DeleteEntityValues)

	entities.GET("/:id/settings", d.Settings.List)
	entities.PUT("/:id/settings", d.Settings.Save)
	entities.DELETE("/:id/settings", d.Settings.Reset)
	entities.GET("/:id/settings/:key", d.Settings.Get)
	entities.PUT("/:id/settings/:key", d.Settings.Set)
	entities.DELETE("/:id/settings/:key", d.Settings.Delete)

	values := scoped.Group("/attribute-values")
	values.GET("", d.AttributeValues.List)
	values.POST("", d.AttributeValues.Create)
	values.GET("/statistics", d.AttributeValues.Statistics)
	values.GET("/:id", d.AttributeValues.Get)
	values.PUT("/:id", d.AttributeValues.Update)
	values.DELETE("/:id", d.AttributeValues.Delete)

	return r
}
