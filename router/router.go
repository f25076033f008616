package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/controllers"
	"github.com/yeremiapane/teamtask-app/events"
	"github.com/yeremiapane/teamtask-app/middlewares"
	"github.com/yeremiapane/teamtask-app/realtime"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/stores"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi stores & services
	catalog := events.NewCatalog()
	userDir := stores.NewUserDirectory(db)
	teamDir := stores.NewTeamDirectory(db)
	personalTree := services.NewGroupTree(stores.NewPersonalGroupStore(db))
	teamTree := services.NewGroupTree(stores.NewTeamGroupStore(db))
	messageSvc := services.NewMessageService(db, catalog, userDir, teamDir, hub)
	readTracker := services.NewReadStateTracker(db, teamDir)

	// Inisialisasi controller
	groupCtrl := controllers.NewGroupController(personalTree)
	teamGroupCtrl := controllers.NewTeamGroupController(teamTree)
	messageCtrl := controllers.NewMessageController(db, teamDir, readTracker)
	adminMessageCtrl := controllers.NewAdminMessageController(db, messageSvc)
	adminGroupCtrl := controllers.NewAdminGroupController(db)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Handle)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	// PERSONAL GROUPS
	api.GET("/groups", groupCtrl.GetGroups)
	api.POST("/groups", groupCtrl.CreateGroup)
	api.POST("/groups/initialize", groupCtrl.InitializeGroups)
	api.PUT("/groups/:id", groupCtrl.UpdateGroup)
	api.DELETE("/groups/:id", groupCtrl.DeleteGroup)
	api.PUT("/groups/:id/reorder", groupCtrl.ReorderGroup)

	// TEAM GROUPS (:id = team id untuk list/create, node id untuk sisanya)
	api.GET("/team-groups/:id", teamGroupCtrl.GetTeamGroups)
	api.POST("/team-groups/:id", teamGroupCtrl.CreateTeamGroup)
	api.POST("/team-groups/:id/initialize", teamGroupCtrl.InitializeTeamGroups)
	api.PUT("/team-groups/:id", teamGroupCtrl.UpdateTeamGroup)
	api.DELETE("/team-groups/:id", teamGroupCtrl.DeleteTeamGroup)
	api.PUT("/team-groups/:id/reorder", teamGroupCtrl.ReorderTeamGroup)

	// MESSAGES
	api.GET("/messages", messageCtrl.GetAllMessages)
	api.GET("/messages/unread/count", messageCtrl.GetUnreadCount)
	api.GET("/messages/:team_id", messageCtrl.GetTeamMessages)
	api.PATCH("/messages/:id/read", messageCtrl.MarkMessageRead)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	admin.Use(middlewares.AdminOnly())

	admin.POST("/messages/broadcast", middlewares.NewStrictRateLimiter(), adminMessageCtrl.SendBroadcast)
	admin.DELETE("/messages/:id", adminMessageCtrl.DeleteMessage)
	admin.POST("/messages/batch-delete", adminMessageCtrl.BatchDeleteMessages)

	admin.PUT("/groups/:id", adminGroupCtrl.UpdateGroup)
	admin.DELETE("/groups/:id", adminGroupCtrl.DeleteGroup)

	return r
}
