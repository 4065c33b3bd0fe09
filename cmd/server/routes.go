package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"payroute.backend/internal/interfaces/http/handlers"
)

const (
	serviceName    = "payroute-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	routeHandler   *handlers.RouteHandler
	paymentHandler *handlers.PaymentHandler
	chainHandler   *handlers.ChainHandler
	tokenHandler   *handlers.TokenHandler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/routes", d.routeHandler.GetRoute)

		// Payment links
		v1.GET("/pay/*segments", d.paymentHandler.ResolvePaymentLink)
		v1.GET("/pay-parse/*segments", d.paymentHandler.ParsePaymentLink)

		// Registry (public)
		v1.GET("/chains", d.chainHandler.ListChains)
		v1.GET("/tokens", d.tokenHandler.ListTokens)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
