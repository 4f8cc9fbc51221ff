package database

type Entry struct {
	ISODate string `json:"isoDate"`
}
