package request

type MovieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Genre       string `json:"genre" validate:"required,max=100"`
	Duration    int    `json:"duration" validate:"required,min=1"`
	Rating      string `json:"rating" validate:"required,max=20"`
	ReleaseYear int    `json:"release_year" validate:"required,min=1900"`
}
