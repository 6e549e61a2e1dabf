package http

import "github.com/labstack/echo/v4"

// Handler is anything that can mount its routes on the shared Echo server.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
