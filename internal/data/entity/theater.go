package entity

type Theater struct {
	Base
	Name     string `db:"name"`
	Capacity int    `db:"capacity"`
}
