package api

import (
	"github.com/gin-gonic/gin"

	"github.com/milhaspix/milhas"
	"github.com/milhaspix/milhas/api/middleware"
	"github.com/milhaspix/milhas/config"
)

type Api struct {
	milhas *milhas.Milhas
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/api/forms", a.CreateForm)
	router.GET("/api/forms/:id", a.GetForm)
	router.PUT("/api/forms/:id/fields", a.UpdateFormFields)
	router.POST("/api/forms/:id/advance", a.AdvanceForm)
	router.POST("/api/forms/:id/retreat", a.RetreatForm)
	router.POST("/api/forms/:id/steps/:step", a.GoToStep)
	router.GET("/api/forms/:id/ranking", a.FormRanking)
	router.POST("/api/forms/:id/submit", a.SubmitForm)
	router.DELETE("/api/forms/:id", a.ClearForm)

	router.POST("/api/announcement", a.CreateAnnouncement)
	router.GET("/api/simulate-ranking", a.SimulateRanking)
	router.GET("/api/simulate-offers-list", a.SimulateOffersList)

	return a.router
}

func NewAPI(m *milhas.Milhas) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{milhas: m, router: r}
}
