package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/model"
	"schoolapi/internal/service"
)

// Resource names one collection in routes and response bodies.
type Resource struct {
	Name string // singular, capitalised: "Student"
	Key  string // singular JSON key of the deleted entity: "student"
	Path string // collection route: "/students"
}

var (
	Students = Resource{Name: "Student", Key: "student", Path: "/students"}
	Teachers = Resource{Name: "Teacher", Key: "teacher", Path: "/teachers"}
)

func (r Resource) notFound(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusNotFound, codeNotFound, r.Name+" not found")
}

// fail maps a service error to its response.
func (r Resource) fail(c *fiber.Ctx, log zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return r.notFound(c)
	default:
		return internalError(c, log, err)
	}
}

// badBody answers a body that failed to decode: malformed JSON is a client
// error, a value that cannot be cast is not.
func badBody(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var castErr *model.CastError
	if errors.As(err, &castErr) {
		return internalError(c, log, err)
	}
	return writeError(c, fiber.StatusBadRequest, codeBadRequest, msgBadRequest)
}

func list[T any](r Resource, svc service.Service[T], log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return r.fail(c, log, err)
		}
		return c.JSON(items)
	}
}

func get[T any](r Resource, svc service.Service[T], log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return r.fail(c, log, err)
		}
		return c.JSON(doc)
	}
}

// create decodes only the declared fields of T, cast to their kinds; unknown
// keys are ignored and an empty body creates an entity without fields.
func create[T any](r Resource, svc service.Service[T], log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(T)
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, in); err != nil {
				return badBody(c, log, err)
			}
		}
		doc, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return r.fail(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// update forwards the body as a JSON object; the service keeps the updatable keys.
func update[T any](r Resource, svc service.Service[T], log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := map[string]any{}
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return writeError(c, fiber.StatusBadRequest, codeBadRequest, msgBadRequest)
			}
		}
		doc, err := svc.Update(c.UserContext(), c.Params("id"), payload)
		if err != nil {
			return r.fail(c, log, err)
		}
		return c.JSON(doc)
	}
}

func remove[T any](r Resource, svc service.Service[T], log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return r.fail(c, log, err)
		}
		return c.JSON(fiber.Map{
			"message": r.Name + " deleted successfully",
			r.Key:     doc,
		})
	}
}
