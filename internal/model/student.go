package model

// Student is a document in the students collection.
// Every field except ID is optional and omitted from JSON when absent.
type Student struct {
	ID    string   `json:"_id,omitempty" bson:"-"`
	Name  *string  `json:"name,omitempty" bson:"name,omitempty"`
	Age   *float64 `json:"age,omitempty" bson:"age,omitempty"`
	Grade any      `json:"grade,omitempty" bson:"grade,omitempty"`
}

// StudentSchema declares the fields a client may set on a student.
var StudentSchema = Schema{
	"name":  KindString,
	"age":   KindNumber,
	"grade": KindMixed,
}

func (s *Student) GetID() string   { return s.ID }
func (s *Student) SetID(id string) { s.ID = id }

// UnmarshalJSON decodes a student, casting declared fields and ignoring the rest.
func (s *Student) UnmarshalJSON(b []byte) error {
	fields, id, err := decodeCast(b, StudentSchema)
	if err != nil {
		return err
	}
	*s = Student{
		ID:    id,
		Name:  stringField(fields, "name"),
		Age:   numberField(fields, "age"),
		Grade: fields["grade"],
	}
	return nil
}
