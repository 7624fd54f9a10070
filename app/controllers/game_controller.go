package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tycopoly/tycopoly-backend/app/models"
	"github.com/tycopoly/tycopoly-backend/pkg"
	"github.com/tycopoly/tycopoly-backend/platform/cache"
	"github.com/tycopoly/tycopoly-backend/platform/database"
	"github.com/tycopoly/tycopoly-backend/platform/logging"
)

var gameLog = logging.For("game")

func CreateGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{
		Id:     pkg.RandString(6),
		Name:   gameCreateDto.Name,
		Status: models.GameStatusOpen,
		Type:   gameCreateDto.Type,
	}
	if _, err := db.Model(game).Insert(); err != nil {
		gameLog.WithError(err).Error("failed creating game")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

func GetAllAvailGames(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	var games []models.Game
	if err := db.Model(&games).Where("status = ?", models.GameStatusOpen).Select(); err != nil {
		gameLog.WithError(err).Error("failed listing games")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	pool := cache.CreateRedisPool()
	defer pool.Close()
	conn := pool.Get()
	defer conn.Close()

	summaries := make([]models.GameSummary, 0, len(games))
	for _, game := range games {
		count, err := cache.HLEN("room."+game.Id+".players", &conn)
		if err != nil {
			count = 0
		}
		summaries = append(summaries, models.GameSummary{Game: game, Players: count})
	}
	return c.JSON(summaries)
}

// FindAvailGame returns the open game with the most free seats, for a
// quick-join button.
func FindAvailGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	var games []models.Game
	if err := db.Model(&games).Where("status = ?", models.GameStatusOpen).Select(); err != nil || len(games) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}

	pool := cache.CreateRedisPool()
	defer pool.Close()
	conn := pool.Get()
	defer conn.Close()

	best := games[0]
	bestCount := -1
	for _, game := range games {
		count, err := cache.HLEN("room."+game.Id+".players", &conn)
		if err != nil {
			count = 0
		}
		if bestCount == -1 || count < bestCount {
			best, bestCount = game, count
		}
	}
	return c.JSON(fiber.Map{"id": best.Id, "players": strconv.Itoa(bestCount)})
}

func VerifyGame(c *fiber.Ctx) error {
	db := database.PostgreSQLConnection()
	defer db.Close()

	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{Id: verifyGameDto.Code}
	if err := db.Model(game).WherePK().Select(); err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": true})
}
