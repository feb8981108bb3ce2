package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/model"
	"schoolapi/internal/service"
)

// deletedStudent is the body returned by DELETE /students/{id}.
type deletedStudent struct {
	Message string        `json:"message" example:"Student deleted successfully"`
	Student model.Student `json:"student"`
}

// ListStudents godoc
// @Summary      List students
// @Description  Returns every student in insertion order.
// @Tags         students
// @Produce      json
// @Success      200  {array}   model.Student
// @Failure      500  {object}  errorPayload
// @Router       /students [get]
func ListStudents(svc service.StudentService, log zerolog.Logger) fiber.Handler {
	return list(Students, svc, log)
}

// GetStudent godoc
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  model.Student
// @Failure      404  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /students/{id} [get]
func GetStudent(svc service.StudentService, log zerolog.Logger) fiber.Handler {
	return get(Students, svc, log)
}

// CreateStudent godoc
// @Summary      Create a student
// @Description  Stores the declared fields of the body under a new identifier. Unknown keys and _id are ignored.
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        student  body      model.Student  true  "Student"
// @Success      201      {object}  model.Student
// @Failure      400      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /students [post]
func CreateStudent(svc service.StudentService, log zerolog.Logger) fiber.Handler {
	return create(Students, svc, log)
}

// UpdateStudent godoc
// @Summary      Update a student
// @Description  Merges name, age and grade from the body into the stored student.
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Student ID"
// @Param        student  body      model.Student  true  "Fields to change"
// @Success      200      {object}  model.Student
// @Failure      400      {object}  errorPayload
// @Failure      404      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /students/{id} [put]
func UpdateStudent(svc service.StudentService, log zerolog.Logger) fiber.Handler {
	return update(Students, svc, log)
}

// DeleteStudent godoc
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  deletedStudent
// @Failure      404  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /students/{id} [delete]
func DeleteStudent(svc service.StudentService, log zerolog.Logger) fiber.Handler {
	return remove(Students, svc, log)
}
