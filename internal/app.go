package internal

import (
	"log"
	"strings"

	"crax/internal/ai"
	"crax/internal/db"
	"crax/internal/env"
	"crax/internal/events"
	"crax/internal/githubhooks"
	"crax/internal/judge"
	"crax/internal/logger"
	"crax/internal/processors"
	"crax/internal/relevance"
	"crax/internal/store"
	"crax/internal/summarizer"
	"crax/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	app := fiber.New()

	env.Init(envRoot, appVersion)

	if err := logger.Initialize(env.LOG_LEVEL); err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}

	deploy := strings.TrimSpace(deployment)

	if err := db.InitDB(deploy); err != nil {
		log.Fatal("Could not connect to MongoDB")
		return nil
	}

	if err := db.InitCache(); err != nil {
		// Identity resolution falls back to Mongo when Redis is away.
		log.Printf("Could not connect to Redis, identity cache disabled: %v", err)
	}

	if db.Events != nil {
		events.Em = events.NewEmitter(db.Events, deploy)
	} else {
		events.Em = nil
	}

	st := &store.Mongo{
		Profiles: db.Profiles,
		Commits:  db.Commits,
		Posts:    db.Posts,
		Projects: db.Projects,
		Cache:    db.RDB,
	}

	gen := ai.NewAnthropic(env.ANTHROPIC_API_KEY, env.ANTHROPIC_MODEL)

	app.Use(cors.New())

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "crax-webhook-server",
		})
	})

	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	app.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	githubhooks.Routes(app, &githubhooks.Handler{
		Secret:      env.GITHUB_WEBHOOK_SECRET,
		MainBranch:  env.MAIN_BRANCH,
		SkipPrivate: env.SKIP_PRIVATE_REPOS,
		Store:       st,
		Judge:       judge.New(gen),
		Summarizer:  summarizer.New(gen),
	})

	processors.Routes(app, &processors.Handler{
		Secret: env.CRAX_SECRET_KEY,
		Store:  st,
		LinkedIn: relevance.NewClient(
			env.RAI_REGION,
			env.RAI_PROJECT,
			env.RAI_API_KEY,
			env.RAI_LINKEDIN_TOOL_ID,
		),
	})

	app.Get("/events/stream", ws.StreamEvents)

	return app
}
