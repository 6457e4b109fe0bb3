package generic_test

import (
	"fmt"
	"reflect"

	"github.com/mikemcowie/brewing/pkg/generic"
)

type User struct {
	ID   string
	Name string
}

type Note struct {
	ID   string
	Body string
}

// Repository is a runtime-generic declaration:
// Model receives its concrete type at specialisation time.
type Repository struct {
	Model reflect.Type `generic:"ModelT"`
	Table string
}

func ExampleDeclare() {
	cls, err := generic.Declare[Repository]("ModelT")
	if err != nil {
		panic(err)
	}

	users, err := cls.Specialize(generic.TypeOf[User]())
	if err != nil {
		panic(err)
	}

	repo := users.New()
	fmt.Println(users.Name())
	fmt.Println(repo.Model)
	// Output:
	// Repository[User]
	// generic_test.User
}

func ExampleClass_Specialize() {
	cls := generic.MustDeclare[Repository]("ModelT")

	users := cls.MustSpecialize(generic.TypeOf[User]())
	notes := cls.MustSpecialize(generic.TypeOf[Note]())

	fmt.Println(users.New().Model.Name())
	fmt.Println(notes.New().Model.Name())
	// Output:
	// User
	// Note
}

func ExampleDeclareFrom() {
	cls, err := generic.DeclareFrom[Repository](Repository{Table: "users"}, "ModelT")
	if err != nil {
		panic(err)
	}

	users := cls.MustSpecialize(generic.TypeOf[User]())
	fmt.Println(users.New().Table)
	// Output:
	// users
}
