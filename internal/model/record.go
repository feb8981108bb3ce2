package model

// Record is satisfied by pointers to stored resources. Backends use it to
// attach the store-generated identifier after decoding a document.
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
}
