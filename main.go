package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/joho/godotenv/autoload"

	"github.com/tycopoly/tycopoly-backend/app/controllers"
	"github.com/tycopoly/tycopoly-backend/pkg/routes"
	"github.com/tycopoly/tycopoly-backend/platform/logging"
	"github.com/tycopoly/tycopoly-backend/platform/sockets"
)

func main() {
	logging.Init()

	app := fiber.New()

	app.Use(cors.New())
	routes.AuthRoutes(app)
	routes.GameRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: controllers.JWTSecret(),
	}))

	app.Get("/user/cur", controllers.Cur)

	go sockets.CreateSocketIOServer()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":4101"
	}
	if err := app.Listen(addr); err != nil {
		logging.For("main").WithError(err).Fatal("http server stopped")
	}
}
