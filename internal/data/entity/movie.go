package entity

type Movie struct {
	Base
	Title       string `db:"title"`
	Genre       string `db:"genre"`
	Duration    int    `db:"duration"` // minutes
	Rating      string `db:"rating"`
	ReleaseYear int    `db:"release_year"`
}
