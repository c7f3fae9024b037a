package routes

import (
	"orgvote-be/controllers"
	"orgvote-be/middlewares"

	"github.com/gin-gonic/gin"
)

// VoteRoutes sets up the public ballot-casting route. Voters authenticate
// with their roster credential in the request body, not a portal session.
func VoteRoutes(r *gin.Engine) {
	vote := r.Group("/api/vote")
	{
		vote.POST("", middlewares.VoteRateLimiter(30), controllers.CastVote)
	}
}
