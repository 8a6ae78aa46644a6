package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/controllers"
	"github.com/surau-digital/surauhub/lib/service"
	"github.com/surau-digital/surauhub/lib/tokens"
)

// RegisterEndpoints mounts every API route. secured carries the session token
// middleware, role checks are added per route.
func RegisterEndpoints(svc *service.SurauService, e *echo.Echo, secured *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	finRead := tokens.RequireRoles(common.FinancialReadRoles...)
	finWrite := tokens.RequireRoles(common.FinancialWriteRoles...)
	khairatWrite := tokens.RequireRoles(common.KhairatWriteRoles...)
	preacherWrite := tokens.RequireRoles(common.PreacherWriteRoles...)
	adminOnly := tokens.RequireRoles(common.RoleAdmin)

	e.GET("/health", controllers.NewHealthController(svc).Check)

	// Public endpoints
	authCtrl := controllers.NewAuthController(svc)
	khairatCtrl := controllers.NewKhairatController(svc)
	userCtrl := controllers.NewUserController(svc)
	e.POST("/api/auth/login", authCtrl.Login, strictRateLimitMiddleware, logMw)
	e.POST("/api/khairat/apply", khairatCtrl.Apply, strictRateLimitMiddleware, logMw)
	// bootstrap for the first administrator
	e.POST("/api/admin/users", userCtrl.CreateUser, strictRateLimitMiddleware, adminMw, logMw)

	secured.POST("/api/auth/logout", authCtrl.Logout)
	secured.GET("/api/auth/me", authCtrl.Me)

	users := secured.Group("/api/users", adminOnly)
	users.GET("", userCtrl.ListUsers)
	users.POST("", userCtrl.CreateUser)
	users.PUT("/:id", userCtrl.UpdateUser)

	fin := secured.Group("/api/financial")
	statementCtrl := controllers.NewStatementController(svc)
	fin.POST("/statements", statementCtrl.Upload, finWrite)
	fin.GET("/statements", statementCtrl.List, finRead)
	fin.GET("/statements/:id", statementCtrl.Get, finRead)
	fin.GET("/statements/:id/file", statementCtrl.Download, finRead)
	fin.PUT("/statements/:id", statementCtrl.Update, finWrite)
	fin.DELETE("/statements/:id", statementCtrl.Delete, finWrite)

	transactionCtrl := controllers.NewTransactionController(svc)
	fin.GET("/transactions", transactionCtrl.List, finRead)
	fin.PUT("/transactions/:id", transactionCtrl.Categorize, finWrite)
	fin.GET("/categories", transactionCtrl.Categories, finRead)

	reportCtrl := controllers.NewReportController(svc)
	fin.GET("/buku-tunai", reportCtrl.BukuTunai, finRead)
	fin.GET("/penyesuaian-bank", reportCtrl.PenyesuaianBank, finRead)
	fin.GET("/penyata-tahunan", reportCtrl.PenyataTahunan, finRead)
	fin.GET("/opening-balance", reportCtrl.OpeningBalance, finRead)
	fin.GET("/monthly-balances", reportCtrl.MonthlyBalances, finRead)

	notaCtrl := controllers.NewNotaController(svc)
	fin.GET("/nota", notaCtrl.Kinds, finRead)
	for _, kind := range service.NotaKinds() {
		nota := fin.Group("/nota-"+kind.Kind, controllers.WithNotaKind(kind.Kind))
		nota.GET("", notaCtrl.Get, finRead)
		nota.POST("", notaCtrl.Generate, finWrite)
		nota.DELETE("", notaCtrl.DeleteYear, finWrite)
		nota.POST("/rows", notaCtrl.CreateRow, finWrite)
		nota.PUT("/:id", notaCtrl.UpdateRow, finWrite)
		nota.DELETE("/:id", notaCtrl.DeleteRow, finWrite)
	}

	khairat := secured.Group("/api/khairat")
	khairat.GET("", khairatCtrl.List)
	khairat.POST("/upload-excel", khairatCtrl.Upload, khairatWrite)
	khairat.GET("/:id", khairatCtrl.Get)
	khairat.POST("/:id/approve", khairatCtrl.Approve, khairatWrite)
	khairat.POST("/:id/reject", khairatCtrl.Reject, khairatWrite)
	khairat.PUT("/:id/dependents", khairatCtrl.ReplaceDependents, khairatWrite)
	khairat.DELETE("/:id", khairatCtrl.Delete, khairatWrite)

	preacherCtrl := controllers.NewPreacherController(svc)
	secured.GET("/api/preachers", preacherCtrl.ListPreachers)
	secured.POST("/api/preachers", preacherCtrl.CreatePreacher, preacherWrite)
	secured.PUT("/api/preachers/:id", preacherCtrl.UpdatePreacher, preacherWrite)
	secured.GET("/api/preacher-schedules", preacherCtrl.ListSchedules)
	secured.POST("/api/preacher-schedules/bulk", preacherCtrl.BulkSchedules, preacherWrite)
	secured.DELETE("/api/preacher-schedules/:id", preacherCtrl.DeleteSchedule, preacherWrite)
}
