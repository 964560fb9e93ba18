package request

type FindPlant struct {
	ID string `validate:"required" json:"id"`
}
