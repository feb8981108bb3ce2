package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog"

	"schoolapi/docs"
	"schoolapi/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store    Pinger
	Students service.StudentService
	Teachers service.TeacherService
	Log      zerolog.Logger
	// DocsHost is advertised by the API docs when the request carries no Host header.
	DocsHost string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	students, teachers, log := d.Students, d.Teachers, d.Log

	app.Get("/swagger/*", SwaggerUI(d.DocsHost))

	app.Get("/", Root())
	app.Get("/health", HealthCheck(d.Store))
	app.Get("/healthz", LivenessProbe())

	app.Get(Students.Path, ListStudents(students, log))
	app.Get(Students.Path+"/:id", GetStudent(students, log))
	app.Post(Students.Path, CreateStudent(students, log))
	app.Put(Students.Path+"/:id", UpdateStudent(students, log))
	app.Delete(Students.Path+"/:id", DeleteStudent(students, log))

	app.Get(Teachers.Path, ListTeachers(teachers, log))
	app.Get(Teachers.Path+"/:id", GetTeacher(teachers, log))
	app.Post(Teachers.Path, CreateTeacher(teachers, log))
	app.Put(Teachers.Path+"/:id", UpdateTeacher(teachers, log))
	app.Delete(Teachers.Path+"/:id", DeleteTeacher(teachers, log))
}

// Root godoc
// @Summary  Greeting
// @Tags     health
// @Produce  plain
// @Success  200  {string}  string  "Hello, Fiber!"
// @Router   / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("Hello, Fiber!")
	}
}

// HealthCheck godoc
// @Summary  Store connectivity check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  errorPayload
// @Router   /health [get]
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, codeServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary  Liveness probe
// @Tags     health
// @Success  200
// @Router   /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// SwaggerUI serves the API docs with host and scheme taken from the request.
// doc.json is rendered from a per-request copy of the registered spec so
// concurrent requests never write the shared docs.SwaggerInfo.
func SwaggerUI(defaultHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Params("*") != "doc.json" {
			return swagger.HandlerDefault(c)
		}

		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		host := c.Get("Host")
		if host == "" {
			host = defaultHost
		}

		spec := *docs.SwaggerInfo
		spec.Host = host
		spec.Schemes = []string{scheme}
		return c.Type("json").SendString(spec.ReadDoc())
	}
}
