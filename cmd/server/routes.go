package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Busline-Digital/marquee/internal/broker"
	"github.com/Busline-Digital/marquee/internal/db"
	"github.com/Busline-Digital/marquee/internal/http/api"
	adminapi "github.com/Busline-Digital/marquee/internal/http/api/admin/endpoints"
	tvapi "github.com/Busline-Digital/marquee/internal/http/api/tv/endpoints"
	"github.com/Busline-Digital/marquee/internal/player"
	"github.com/Busline-Digital/marquee/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	storageSystem storage.Storage,
	publisher broker.Publisher,
	supervisor *player.Supervisor,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		adminapi.LayoutModule(store),
		adminapi.BusModule(store, publisher),
		adminapi.UploadModule(storageSystem),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		tvapi.BusModule(store, supervisor),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
