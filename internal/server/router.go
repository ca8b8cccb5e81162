package server

import (
	"chit-auction/internal/metrics"
	"chit-auction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// Services bundles the domain services the HTTP layer dispatches to
type Services struct {
	Auction  handler.AuctionServiceInterface
	Requests handler.RequestServiceInterface
	Roster   handler.RosterServiceInterface
}

// SetupRouter configures all Gin routes for the application.
// limiter and hub are optional.
func SetupRouter(svc Services, limiter *RateLimiter, hub *Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(svc.Auction)
	requestHandler := handler.NewRequestHandler(svc.Requests)
	rosterHandler := handler.NewRosterHandler(svc.Roster)

	bidChain := []gin.HandlerFunc{auctionHandler.PlaceBidHandler}
	if limiter != nil {
		bidChain = append([]gin.HandlerFunc{limiter.Middleware()}, bidChain...)
	}

	auction := router.Group("/auction")
	{
		auction.POST("/join", auctionHandler.JoinRoomHandler)
		auction.POST("/bids", bidChain...)
		auction.GET("/state", auctionHandler.GetStateHandler)
		auction.GET("/config", auctionHandler.GetConfigHandler)
		auction.GET("/increments", auctionHandler.GetIncrementsHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/can-bid", auctionHandler.CanBidHandler)
		users.GET("/:user_id/finance", auctionHandler.GetFinanceHandler)
	}

	requests := router.Group("/requests")
	{
		requests.POST("", requestHandler.SubmitRequestHandler)
		requests.GET("", requestHandler.ListRequestsHandler)
	}

	admin := router.Group("/admin", AdminMiddleware)
	{
		round := admin.Group("/auction")
		round.POST("/start", auctionHandler.StartRoundHandler)
		round.POST("/stop", auctionHandler.StopRoundHandler)
		round.POST("/finalize", auctionHandler.FinalizeHandler)
		round.POST("/reset", auctionHandler.ResetRoundHandler)
		round.POST("/bids", bidChain...)
		round.PUT("/config", auctionHandler.UpdateConfigHandler)
		round.GET("/settlement", auctionHandler.GetSettlementHandler)
		round.POST("/settle", auctionHandler.SettleHandler)

		admin.POST("/requests/:id/approve", requestHandler.ApproveRequestHandler)
		admin.POST("/requests/:id/reject", requestHandler.RejectRequestHandler)

		admin.GET("/users", rosterHandler.ListUsersHandler)
		admin.POST("/users", rosterHandler.AddUserHandler)
		admin.PUT("/users/:user_id", rosterHandler.UpdateUserHandler)
		admin.DELETE("/users/:user_id", rosterHandler.DeleteUserHandler)
		admin.GET("/batches", rosterHandler.ListBatchesHandler)
		admin.POST("/batches", rosterHandler.AddBatchHandler)
	}

	if hub != nil {
		router.GET("/ws", hub.Handle)
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
