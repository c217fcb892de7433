package scheduler

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	sched := r.Group("/scheduler")
	{
		sched.GET("/status", handler.Status)
		sched.POST("/start", handler.Start)
		sched.POST("/stop", handler.Stop)
		sched.POST("/restart", handler.Restart)
		sched.POST("/check", handler.Check)
		sched.GET("/pending", handler.Pending)
		sched.GET("/overdue", handler.Overdue)
		sched.GET("/upcoming", handler.Upcoming)
		sched.GET("/statistics", handler.Statistics)
	}
}
