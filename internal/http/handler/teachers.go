package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/model"
	"schoolapi/internal/service"
)

// deletedTeacher is the body returned by DELETE /teachers/{id}.
type deletedTeacher struct {
	Message string        `json:"message" example:"Teacher deleted successfully"`
	Teacher model.Teacher `json:"teacher"`
}

// ListTeachers godoc
// @Summary      List teachers
// @Description  Returns every teacher in insertion order.
// @Tags         teachers
// @Produce      json
// @Success      200  {array}   model.Teacher
// @Failure      500  {object}  errorPayload
// @Router       /teachers [get]
func ListTeachers(svc service.TeacherService, log zerolog.Logger) fiber.Handler {
	return list(Teachers, svc, log)
}

// GetTeacher godoc
// @Summary      Get a teacher
// @Tags         teachers
// @Produce      json
// @Param        id   path      string  true  "Teacher ID"
// @Success      200  {object}  model.Teacher
// @Failure      404  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /teachers/{id} [get]
func GetTeacher(svc service.TeacherService, log zerolog.Logger) fiber.Handler {
	return get(Teachers, svc, log)
}

// CreateTeacher godoc
// @Summary      Create a teacher
// @Description  Stores the declared fields of the body under a new identifier. Unknown keys and _id are ignored.
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        teacher  body      model.Teacher  true  "Teacher"
// @Success      201      {object}  model.Teacher
// @Failure      400      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /teachers [post]
func CreateTeacher(svc service.TeacherService, log zerolog.Logger) fiber.Handler {
	return create(Teachers, svc, log)
}

// UpdateTeacher godoc
// @Summary      Update a teacher
// @Description  Merges name, age, gender and subject from the body into the stored teacher.
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Teacher ID"
// @Param        teacher  body      model.Teacher  true  "Fields to change"
// @Success      200      {object}  model.Teacher
// @Failure      400      {object}  errorPayload
// @Failure      404      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /teachers/{id} [put]
func UpdateTeacher(svc service.TeacherService, log zerolog.Logger) fiber.Handler {
	return update(Teachers, svc, log)
}

// DeleteTeacher godoc
// @Summary      Delete a teacher
// @Tags         teachers
// @Produce      json
// @Param        id   path      string  true  "Teacher ID"
// @Success      200  {object}  deletedTeacher
// @Failure      404  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /teachers/{id} [delete]
func DeleteTeacher(svc service.TeacherService, log zerolog.Logger) fiber.Handler {
	return remove(Teachers, svc, log)
}
