package model

// Teacher is a document in the teachers collection.
type Teacher struct {
	ID      string   `json:"_id,omitempty" bson:"-"`
	Name    *string  `json:"name,omitempty" bson:"name,omitempty"`
	Age     *float64 `json:"age,omitempty" bson:"age,omitempty"`
	Gender  *string  `json:"gender,omitempty" bson:"gender,omitempty"`
	Subject *string  `json:"subject,omitempty" bson:"subject,omitempty"`
}

// TeacherSchema declares the fields a client may set on a teacher.
var TeacherSchema = Schema{
	"name":    KindString,
	"age":     KindNumber,
	"gender":  KindString,
	"subject": KindString,
}

func (t *Teacher) GetID() string   { return t.ID }
func (t *Teacher) SetID(id string) { t.ID = id }

// UnmarshalJSON decodes a teacher, casting declared fields and ignoring the rest.
func (t *Teacher) UnmarshalJSON(b []byte) error {
	fields, id, err := decodeCast(b, TeacherSchema)
	if err != nil {
		return err
	}
	*t = Teacher{
		ID:      id,
		Name:    stringField(fields, "name"),
		Age:     numberField(fields, "age"),
		Gender:  stringField(fields, "gender"),
		Subject: stringField(fields, "subject"),
	}
	return nil
}
