package routes

import (
	"orgvote-be/controllers"
	"orgvote-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ElectionRoutes sets up election administration routes
func ElectionRoutes(r *gin.Engine) {
	election := r.Group("/api/election", middlewares.AuthMiddleware())
	{
		election.POST("/create", controllers.CreateElection)
		election.GET("", controllers.GetAllElections)
		election.GET("/:id", controllers.GetElection)
		election.PUT("/:id", controllers.UpdateElection)
		election.DELETE("/:id", controllers.DeleteElection)

		election.POST("/:id/session", controllers.CreateSession)
		election.POST("/:id/voter", controllers.AddVoter)
		election.GET("/:id/voters", controllers.GetVoters)

		election.GET("/:id/results", controllers.GetDetailedResults)
		election.GET("/:id/participation", controllers.GetVoterParticipation)
		election.GET("/:id/stats", controllers.GetElectionStats)
		election.GET("/:id/trend", controllers.GetParticipationTrend)
	}

	session := r.Group("/api/session", middlewares.AuthMiddleware())
	{
		session.GET("/:id", controllers.GetSession)
		session.PUT("/:id", controllers.UpdateSession)
		session.DELETE("/:id", controllers.DeleteSession)
		session.POST("/:id/start", controllers.StartSession)
		session.POST("/:id/stop", controllers.StopSession)
		session.POST("/:id/item", controllers.CreateVotingItem)
	}

	item := r.Group("/api/item", middlewares.AuthMiddleware())
	{
		item.GET("/:id", controllers.GetVotingItem)
		item.PUT("/:id", controllers.UpdateVotingItem)
		item.DELETE("/:id", controllers.DeleteVotingItem)
		item.POST("/:id/option", controllers.CreateVotingOption)
	}

	option := r.Group("/api/option", middlewares.AuthMiddleware())
	{
		option.PUT("/:id", controllers.UpdateVotingOption)
		option.DELETE("/:id", controllers.DeleteVotingOption)
	}

	voter := r.Group("/api/voter", middlewares.AuthMiddleware())
	{
		voter.PUT("/:id", controllers.UpdateVoter)
		voter.DELETE("/:id", controllers.DeleteVoter)
	}

	campus := r.Group("/api/campus")
	{
		campus.GET("", controllers.GetCampuses)
		campus.POST("/create", middlewares.AuthMiddleware(), controllers.CreateCampus)
	}
}
